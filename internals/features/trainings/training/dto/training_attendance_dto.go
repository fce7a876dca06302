// internals/features/trainings/training/dto/training_attendance_dto.go
package dto

import (
	"github.com/google/uuid"

	attDTO "siagabencana_backend/internals/features/attendance/sessions/dto"
	attModel "siagabencana_backend/internals/features/attendance/sessions/model"
	trainingModel "siagabencana_backend/internals/features/trainings/training/model"
)

/* =======================================================
   RESPONSE: rekap kehadiran level pelatihan
======================================================= */

type TrainingSessionAttendance struct {
	Session     attDTO.AttendanceSessionResponse `json:"session"`
	RecordCount int                              `json:"record_count"`
	Records     []attDTO.SessionAttendeeEntry    `json:"records"`
}

type TrainingAttendanceBreakdown struct {
	TotalRecords       int            `json:"total_records"`
	UniqueParticipants int            `json:"unique_participants"`
	ByMethod           map[string]int `json:"by_method"`
	BySession          map[string]int `json:"by_session"` // key: session_token
}

type TrainingAttendanceResponse struct {
	Training  TrainingResponse            `json:"training"`
	Sessions  []TrainingSessionAttendance `json:"sessions"`
	Breakdown TrainingAttendanceBreakdown `json:"breakdown"`
}

// BuildTrainingAttendance merakit rekap dari sesi + seluruh record-nya.
// Murni in-memory; query-nya urusan controller.
func BuildTrainingAttendance(
	training *trainingModel.TrainingModel,
	sessions []attModel.AttendanceSessionModel,
	records []attModel.AttendanceRecordModel,
) TrainingAttendanceResponse {
	bySession := make(map[uuid.UUID][]attDTO.SessionAttendeeEntry, len(sessions))
	for i := range records {
		rec := &records[i]
		bySession[rec.AttendanceRecordSessionID] = append(
			bySession[rec.AttendanceRecordSessionID], attDTO.AttendeeFromRecord(rec))
	}

	breakdown := TrainingAttendanceBreakdown{
		ByMethod:  map[string]int{},
		BySession: map[string]int{},
	}
	seenUsers := map[uuid.UUID]struct{}{}

	out := TrainingAttendanceResponse{
		Training: FromTrainingModel(training),
		Sessions: make([]TrainingSessionAttendance, 0, len(sessions)),
	}

	for i := range sessions {
		s := &sessions[i]
		entries := bySession[s.AttendanceSessionID]
		if entries == nil {
			entries = []attDTO.SessionAttendeeEntry{}
		}
		out.Sessions = append(out.Sessions, TrainingSessionAttendance{
			Session:     attDTO.FromSessionModel(s),
			RecordCount: len(entries),
			Records:     entries,
		})
		breakdown.BySession[s.AttendanceSessionToken] = len(entries)
	}

	for i := range records {
		rec := &records[i]
		breakdown.TotalRecords++
		breakdown.ByMethod[string(rec.AttendanceRecordMethod)]++
		seenUsers[rec.AttendanceRecordUserID] = struct{}{}
	}
	breakdown.UniqueParticipants = len(seenUsers)

	out.Breakdown = breakdown
	return out
}
