package models

import "time"

// FeeStatus values.
type FeeStatus string

const (
	FeePaid   FeeStatus = "Paid"
	FeeUnpaid FeeStatus = "Unpaid"
)

// Fee is an amount billed to a student. Only the status changes after creation.
type Fee struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	Amount      float64   `db:"amount" json:"amount"`
	Semester    string    `db:"semester" json:"semester"`
	Description string    `db:"description" json:"description"`
	DueDate     Date      `db:"due_date" json:"due_date"`
	Status      FeeStatus `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FeeDetail joins the student's user name and email.
type FeeDetail struct {
	Fee
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}
