package store

import (
	"context"
	"sort"
	"sync"

	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
)

// MemoryStore implements the core storage collaborator without a database.
// It backs the engine tests and local development without MySQL.
type MemoryStore struct {
	mu       sync.Mutex
	students []model.Student
	logs     []model.AttendanceLog
	settings tracker.Settings
}

func NewMemoryStore(settings tracker.Settings) *MemoryStore {
	return &MemoryStore{settings: settings}
}

func (m *MemoryStore) AddStudent(s model.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append(m.students, s)
}

func (m *MemoryStore) find(match func(model.Student) bool) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if match(m.students[i]) {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) FindStudentByRfid(_ context.Context, uid string) (*model.Student, error) {
	return m.find(func(s model.Student) bool { return s.RfidUID != nil && *s.RfidUID == uid })
}

func (m *MemoryStore) FindStudentByNIS(_ context.Context, nis string) (*model.Student, error) {
	return m.find(func(s model.Student) bool { return s.NIS == nis })
}

func (m *MemoryStore) FindStudentByID(_ context.Context, id uint) (*model.Student, error) {
	return m.find(func(s model.Student) bool { return s.ID == id })
}

func (m *MemoryStore) LogsForStudent(_ context.Context, studentID uint, date string) ([]model.AttendanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceLog
	for _, l := range m.logs {
		if l.StudentID == studentID && l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) LogsForDate(_ context.Context, date string) ([]model.AttendanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceLog
	for _, l := range m.logs {
		if l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) AppendLog(_ context.Context, log *model.AttendanceLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(*log)
}

func (m *MemoryStore) AppendLogs(_ context.Context, logs []model.AttendanceLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range logs {
		if err := m.appendLocked(l); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) appendLocked(log model.AttendanceLog) error {
	for _, existing := range m.logs {
		if existing.StudentID == log.StudentID && existing.Date == log.Date && existing.Type == log.Type {
			return tracker.ErrDuplicateLog
		}
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *MemoryStore) Settings(_ context.Context) (tracker.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.settings.OperatingHours) == 0 {
		m.settings.OperatingHours = DefaultOperatingHours()
	}
	return m.settings, nil
}

// AllLogs snapshots the log set, for test assertions.
func (m *MemoryStore) AllLogs() []model.AttendanceLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AttendanceLog, len(m.logs))
	copy(out, m.logs)
	return out
}

func (m *MemoryStore) SearchLogs(_ context.Context, q LogQuery) ([]model.AttendanceLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []model.AttendanceLog
	for _, l := range m.logs {
		if q.From != "" && l.Date < q.From {
			continue
		}
		if q.To != "" && l.Date > q.To {
			continue
		}
		if q.ClassName != "" && l.ClassName != q.ClassName {
			continue
		}
		if q.Status != "" && l.Status != q.Status {
			continue
		}
		if q.Type != "" && l.Type != q.Type {
			continue
		}
		if q.StudentID != 0 && l.StudentID != q.StudentID {
			continue
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := int64(len(matched))

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *MemoryStore) LogsForRange(_ context.Context, from, to string) ([]model.AttendanceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceLog
	for _, l := range m.logs {
		if l.Date >= from && l.Date <= to {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListStudents(_ context.Context, classID uint) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Student
	for _, s := range m.students {
		if classID == 0 || s.ClassID == classID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpdateStudentPhoto(_ context.Context, studentID uint, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == studentID {
			m.students[i].PhotoURL = &url
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) SaveOperatingHours(_ context.Context, rules []model.OperatingHoursRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.settings.OperatingHours) == 0 {
		m.settings.OperatingHours = DefaultOperatingHours()
	}
	for _, r := range rules {
		for i := range m.settings.OperatingHours {
			if m.settings.OperatingHours[i].DayGroup == r.DayGroup {
				id := m.settings.OperatingHours[i].ID
				m.settings.OperatingHours[i] = r
				m.settings.OperatingHours[i].ID = id
			}
		}
	}
	return nil
}

func (m *MemoryStore) ReplaceHolidays(_ context.Context, holidays []model.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Holidays = holidays
	return nil
}

func (m *MemoryStore) ReplaceEarlyDismissals(_ context.Context, dismissals []model.EarlyDismissal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.EarlyDismissals = dismissals
	return nil
}
