package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	in, err := Decode([]byte(`{"action":"add_transaction","params":{"type":"saída","amount":50.5,"category":"mercado","date":"ontem"}}`))
	require.NoError(t, err)
	add, ok := in.(AddTransaction)
	require.True(t, ok)
	assert.Equal(t, Amount("50.5"), add.Amount)
	assert.Equal(t, "ontem", add.Date)

	in, err = Decode([]byte(`{"action":"add_transaction","params":{"type":"entrada","amount":"1.000,00","category":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, Amount("1.000,00"), in.(AddTransaction).Amount)

	in, err = Decode([]byte(`{"action":"get_balance"}`))
	require.NoError(t, err)
	assert.Equal(t, GetBalance{}, in)

	in, err = Decode([]byte(`{"action":"edit_transaction","params":{"confirmation_received":true,"edit_last":"gasto","new_amount":80}}`))
	require.NoError(t, err)
	edit := in.(EditTransaction)
	require.NotNil(t, edit.NewAmount)
	assert.Equal(t, Amount("80"), *edit.NewAmount)
	assert.Nil(t, edit.NewDate)
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]struct {
		body string
		err  error
	}{
		"unknown action":   {`{"action":"transfer","params":{}}`, ErrUnknownAction},
		"unknown param":    {`{"action":"get_balance","params":{"periodo":"hoje"}}`, ErrInvalidParams},
		"unknown envelope": {`{"action":"get_balance","extra":1}`, ErrInvalidParams},
		"wrong type":       {`{"action":"list_transactions","params":{"limit":"dez"}}`, ErrInvalidParams},
		"bad amount":       {`{"action":"add_transaction","params":{"amount":true}}`, ErrInvalidParams},
		"not json":         {`nope`, ErrInvalidParams},
		"trailing data":    {`{"action":"get_balance"} {}`, ErrInvalidParams},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSession(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID)

	_, ok := s.Resolve(1)
	assert.False(t, ok)

	s.Remember([]int64{42, 7})
	id, ok := s.Resolve(2)
	require.True(t, ok)
	assert.EqualValues(t, 7, id)
	_, ok = s.Resolve(3)
	assert.False(t, ok)
	_, ok = s.Resolve(0)
	assert.False(t, ok)

	s.Forget()
	_, ok = s.Resolve(1)
	assert.False(t, ok)

	assert.NotEqual(t, s.ID, NewSession().ID)
}
