package entity

import (
	"errors"
	"testing"
	"time"
)

func validDue() Date {
	return Date{Year: 2025, Month: time.April, Day: 1}
}

func TestCreateTaskRequestValidate(t *testing.T) {
	req := CreateTaskRequest{Title: "  Pay rent  ", DueDate: validDue()}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.Title != "Pay rent" {
		t.Errorf("title not trimmed: %q", req.Title)
	}
	if req.Priority != PriorityMedium {
		t.Errorf("priority not defaulted: %q", req.Priority)
	}
}

func TestCreateTaskRequestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
	}{
		{"empty title", CreateTaskRequest{Title: "   ", DueDate: validDue()}},
		{"missing due date", CreateTaskRequest{Title: "x"}},
		{"bad priority", CreateTaskRequest{Title: "x", DueDate: validDue(), Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidTaskData) {
				t.Errorf("error %v does not wrap ErrInvalidTaskData", err)
			}
		})
	}
}

func TestUpdateTaskRequestValidate(t *testing.T) {
	req := UpdateTaskRequest{Title: "x", DueDate: validDue(), Priority: PriorityHigh}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := UpdateTaskRequest{Title: "", DueDate: validDue()}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTaskData) {
		t.Errorf("expected ErrInvalidTaskData, got %v", err)
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Priority("urgent").Valid() {
		t.Error("urgent should be invalid")
	}
	if Priority("").Valid() {
		t.Error("empty should be invalid")
	}
}
