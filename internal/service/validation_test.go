package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidatorDomainTags(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Status   string `validate:"attendance_status"`
		Fee      string `validate:"fee_status"`
		Decision string `validate:"leave_decision"`
		Audience string `validate:"audience"`
		Priority string `validate:"priority"`
		Day      string `validate:"weekday"`
		Start    string `validate:"clock"`
	}

	ok := payload{Status: "Present", Fee: "Paid", Decision: "approved", Audience: "students", Priority: "high", Day: "Saturday", Start: "08:30"}
	assert.NoError(t, v.Struct(ok))

	cases := []payload{
		{Status: "present", Fee: "Paid", Decision: "approved", Audience: "all", Priority: "low", Day: "Monday", Start: "08:00"},
		{Status: "Leave", Fee: "Partial", Decision: "approved", Audience: "all", Priority: "low", Day: "Monday", Start: "08:00"},
		{Status: "Leave", Fee: "Paid", Decision: "pending", Audience: "all", Priority: "low", Day: "Monday", Start: "08:00"},
		{Status: "Leave", Fee: "Paid", Decision: "rejected", Audience: "admins", Priority: "low", Day: "Monday", Start: "08:00"},
		{Status: "Leave", Fee: "Paid", Decision: "rejected", Audience: "all", Priority: "urgent", Day: "Monday", Start: "08:00"},
		{Status: "Leave", Fee: "Paid", Decision: "rejected", Audience: "all", Priority: "low", Day: "Sunday", Start: "08:00"},
		{Status: "Leave", Fee: "Paid", Decision: "rejected", Audience: "all", Priority: "low", Day: "Monday", Start: "24:00"},
	}
	for _, c := range cases {
		assert.Error(t, v.Struct(c), "%+v", c)
	}
}
