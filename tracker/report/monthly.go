package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

const sheetName = "Rekap"

// Day-cell codes on the recap sheet. The check-in status decides the code,
// the check-out status appends a marker when the student left early or the
// sweep closed the day for them.
const (
	codePresent    = "H"   // hadir
	codeLate       = "T"   // terlambat
	codeAbsent     = "A"   // alpa
	codeSick       = "S"   // sakit
	codePermit     = "I"   // izin
	markLeftEarly  = "/PA" // pulang awal
	markNoCheckout = "/TK" // tanpa checkout
)

type studentTotals struct {
	Present    int
	Late       int
	Absent     int
	Sick       int
	Permit     int
	LeftEarly  int
	NoCheckout int
}

func Filename(year int, month time.Month) string {
	return fmt.Sprintf("rekap-presensi-%04d-%02d.xlsx", year, month)
}

// BuildMonthly renders one row per student with a column per day of the
// month plus totals. Logs outside the requested month are ignored so the
// caller can pass an over-fetched range.
func BuildMonthly(year int, month time.Month, students []model.Student, logs []model.AttendanceLog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, utils.JakartaTZ).Day()

	headers := []string{"NIS", "Nama", "Kelas"}
	for d := 1; d <= daysInMonth; d++ {
		headers = append(headers, fmt.Sprintf("%d", d))
	}
	headers = append(headers, "Hadir", "Terlambat", "Alpa", "Sakit", "Izin", "Pulang Awal", "Tanpa Checkout")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		f.SetCellValue(sheetName, cell, h)
	}

	monthPrefix := fmt.Sprintf("%04d-%02d-", year, month)
	byStudent := utils.GroupBy(logs, func(l model.AttendanceLog) uint { return l.StudentID })

	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].NIS < sorted[j].NIS })

	for row, student := range sorted {
		r := row + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), student.NIS)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), student.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), student.Class.Name)

		var totals studentTotals
		for d := 1; d <= daysInMonth; d++ {
			date := fmt.Sprintf("%s%02d", monthPrefix, d)
			code := dayCode(byStudent[student.ID], date, &totals)
			if code == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(3+d, r)
			if err != nil {
				return nil, fmt.Errorf("failed to compute day cell: %w", err)
			}
			f.SetCellValue(sheetName, cell, code)
		}

		totalCols := []int{totals.Present, totals.Late, totals.Absent, totals.Sick, totals.Permit, totals.LeftEarly, totals.NoCheckout}
		for i, v := range totalCols {
			cell, err := excelize.CoordinatesToCellName(4+daysInMonth+i, r)
			if err != nil {
				return nil, fmt.Errorf("failed to compute totals cell: %w", err)
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func dayCode(logs []model.AttendanceLog, date string, totals *studentTotals) string {
	var in, out *model.AttendanceLog
	for i := range logs {
		if logs[i].Date != date {
			continue
		}
		switch logs[i].Type {
		case tracker.TypeIn:
			in = &logs[i]
		case tracker.TypeOut:
			out = &logs[i]
		}
	}
	if in == nil {
		return ""
	}

	code := ""
	switch in.Status {
	case tracker.StatusOnTime:
		code = codePresent
		totals.Present++
	case tracker.StatusLate:
		code = codeLate
		totals.Late++
	case tracker.StatusAbsent:
		code = codeAbsent
		totals.Absent++
	case tracker.StatusSick:
		code = codeSick
		totals.Sick++
	case tracker.StatusPermit:
		code = codePermit
		totals.Permit++
	}

	if out != nil {
		switch out.Status {
		case tracker.StatusLeftEarly:
			code += markLeftEarly
			totals.LeftEarly++
		case tracker.StatusNoCheckout:
			code += markNoCheckout
			totals.NoCheckout++
		}
	}
	return code
}
