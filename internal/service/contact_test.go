package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	m := &captureMailer{}
	svc := &ContactService{Mailer: m, Inbox: "sales@weldmart.in"}

	err := svc.Submit(context.Background(), "Ravi", "ravi@example.com", "Need 50kg of 7018 rods")
	require.NoError(t, err)

	require.Len(t, m.to, 1)
	assert.Equal(t, "sales@weldmart.in", m.to[0])
	assert.Contains(t, m.subject[0], "Ravi")
	assert.Contains(t, m.body[0], "Need 50kg of 7018 rods")
}

func TestContactSubmitValidation(t *testing.T) {
	svc := &ContactService{Mailer: &captureMailer{}, Inbox: "sales@weldmart.in"}

	err := svc.Submit(context.Background(), "", "ravi@example.com", "hi")
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Submit(context.Background(), "Ravi", "", "hi")
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Submit(context.Background(), "Ravi", "ravi@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}
