// internals/features/attendance/sessions/controller/attendance_controller_test.go
package controller

import (
	"errors"
	"testing"
)

// Deteksi 23505 berbasis teks karena driver bisa membungkus error;
// daftar substring harus menangkap varian pgx dan lib/pq.
func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "pgx sqlstate",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "uq_attendance_records_session_user" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "lib/pq message",
			err:  errors.New(`pq: duplicate key value violates unique constraint "uq_attendance_records_session_user"`),
			want: true,
		},
		{
			name: "unique constraint generic",
			err:  errors.New("UNIQUE constraint failed: attendance_records.session_id"),
			want: true,
		},
		{
			name: "sqlstate only",
			err:  errors.New("SQLSTATE 23505"),
			want: true,
		},
		{
			name: "foreign key violation",
			err:  errors.New(`ERROR: insert or update on table violates foreign key constraint (SQLSTATE 23503)`),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKey(tt.err); got != tt.want {
				t.Errorf("isDuplicateKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
