package services

import (
	"fmt"
	"strings"
)

// ValidationError -> field request hilang/rusak. Selalu bisa diperbaiki
// pemanggil dengan membetulkan input, tidak pernah di-retry otomatis.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

// ConflictError -> state yang diminta sudah tidak tersedia saat menulis.
// Untuk reservasi membawa jendela konflik ("meja sibuk dari X sampai Y");
// jalur lain mengisi Message sendiri.
type ConflictError struct {
	Message   string
	TableID   uint
	BusyStart string
	BusyEnd   string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.BusyStart == "" {
		return "no table available for the requested time and party size"
	}
	return fmt.Sprintf("table %d is busy from %s to %s", e.TableID, e.BusyStart, e.BusyEnd)
}
