// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, services and storage can all import types without depending
// on each other.
//
// JSON names follow the public API, which predates this service and is
// spelled in Portuguese (cpf, nome, nivel, ...). Go names are English.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Level is a student's training level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// levelAliases maps every accepted spelling to its canonical Level.
var levelAliases = map[string]Level{
	"beginner":      LevelBeginner,
	"iniciante":     LevelBeginner,
	"intermediate":  LevelIntermediate,
	"intermediario": LevelIntermediate,
	"advanced":      LevelAdvanced,
	"avancado":      LevelAdvanced,
}

// ParseLevel converts user input into a Level. Matching is case-insensitive
// and accepts both the English and the Portuguese spelling.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return "", fmt.Errorf("invalid level %q: must be one of beginner, intermediate, advanced", s)
}

// Student is a persisted student record.
//
// PlanValidity is never zero once the record exists: it starts at the
// registration time and only moves when a plan is purchased.
type Student struct {
	ID           int64     `json:"matricula"`
	TaxpayerID   int64     `json:"cpf"`
	Name         string    `json:"nome"`
	Level        Level     `json:"nivel"`
	Phone        *string   `json:"telefone"`
	PlanValidity time.Time `json:"validade"`
}

// StudentList is the envelope returned by the list endpoint.
type StudentList struct {
	Students []Student `json:"alunos"`
}

// StudentRequest is the body of both the create and the update endpoint.
//
// The validate tags are checked by go-playground/validator; "student_level"
// is a custom rule registered in NewValidator.
type StudentRequest struct {
	TaxpayerID int64   `json:"cpf"      validate:"required,gt=0"`
	Name       string  `json:"nome"     validate:"required"`
	Level      string  `json:"nivel"    validate:"required,student_level"`
	Phone      *string `json:"telefone" validate:"omitempty"`
}

// RenewPlanRequest is the body of PUT /contrata_plano. Months is checked by
// the service so a zero or negative value is a semantic (422) failure.
type RenewPlanRequest struct {
	TaxpayerID int64 `json:"cpf"       validate:"required,gt=0"`
	Months     int   `json:"qtd_meses"`
}

// DeletedStudent confirms a removal.
type DeletedStudent struct {
	Message    string `json:"message"`
	Name       string `json:"nome"`
	TaxpayerID int64  `json:"cpf"`
}
