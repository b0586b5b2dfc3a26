package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"presensi.app/presensi/core"
	"presensi.app/presensi/infrastructure/devops"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/tracker/store"
	"presensi.app/presensi/utils"
)

// Imports the student roster from a CSV export of the school information
// system. Columns: nis,name,class,rfid_uid (rfid_uid may be empty until the
// card is issued). Re-running updates names, classes and card assignments.
func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seed <roster.csv>")
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.Database.GetDSN(), 2)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	st := store.NewGormStore(dm.DB())
	if err := st.AutoMigrate(); err != nil {
		log.Fatal(err)
	}

	file, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	rows, err := utils.ParseCSV(file)
	if err != nil {
		log.Fatalf("failed to parse roster: %v", err)
	}

	imported, err := importRoster(dm.DB(), rows)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("[INFO] imported %d students\n", imported)
}

func importRoster(db *gorm.DB, rows [][]string) (int, error) {
	classIDs := map[string]uint{}
	var students []model.Student

	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		nis := strings.TrimSpace(row[0])
		if nis == "" || nis == "nis" { // header row
			continue
		}
		name := strings.TrimSpace(row[1])
		className := strings.TrimSpace(row[2])

		classID, ok := classIDs[className]
		if !ok {
			class := model.SchoolClass{Name: className}
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&class).Error
			if err != nil {
				return 0, fmt.Errorf("row %d: create class %s: %w", i+1, className, err)
			}
			if class.ID == 0 {
				if err := db.Where("name = ?", className).First(&class).Error; err != nil {
					return 0, fmt.Errorf("row %d: find class %s: %w", i+1, className, err)
				}
			}
			classID = class.ID
			classIDs[className] = classID
		}

		student := model.Student{NIS: nis, Name: name, ClassID: classID}
		if len(row) > 3 {
			if uid := strings.TrimSpace(row[3]); uid != "" {
				student.RfidUID = utils.Ptr(uid)
			}
		}
		students = append(students, student)
	}

	if len(students) == 0 {
		return 0, nil
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nis"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "class_id", "rfid_uid"}),
	}).CreateInBatches(students, 100).Error
	if err != nil {
		return 0, fmt.Errorf("failed batch upsert: %w", err)
	}
	return len(students), nil
}
