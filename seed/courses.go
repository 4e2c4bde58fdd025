// Package seed imports an approved course catalog from CSV.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"summercamp/models"

	"gorm.io/gorm"
)

// Result counts what an import did with each row.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ImportCourses reads rows with the headers title, description, image, price,
// capacity and instructorEmail. New courses are created approved with every
// seat available. Existing courses (same title and instructor) get their
// descriptive fields refreshed; seat counts are never touched.
func ImportCourses(ctx context.Context, db *gorm.DB, r io.Reader) (Result, error) {
	var result Result

	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return result, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return result, errors.New("csv file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"title", "price", "capacity", "instructorEmail"} {
		if _, ok := headerIndex[required]; !ok {
			return result, fmt.Errorf("csv is missing the %q column", required)
		}
	}

	db = db.WithContext(ctx)
	for i, row := range records[1:] {
		line := i + 2
		title := getField(row, headerIndex, "title")
		email := strings.ToLower(getField(row, headerIndex, "instructorEmail"))
		price, priceErr := strconv.ParseFloat(getField(row, headerIndex, "price"), 64)
		capacity, capErr := strconv.Atoi(getField(row, headerIndex, "capacity"))

		if title == "" || priceErr != nil || price <= 0 || capErr != nil || capacity <= 0 {
			log.Printf("[SEED] skipping line %d: invalid title, price or capacity", line)
			result.Skipped++
			continue
		}

		var instructor models.User
		err := db.Where("email = ? AND role IN ?", email, []string{models.RoleInstructor, models.RoleAdmin}).
			First(&instructor).Error
		if err != nil {
			log.Printf("[SEED] skipping line %d: no instructor %q", line, email)
			result.Skipped++
			continue
		}

		var existing models.Course
		err = db.Where("title = ? AND instructor_email = ?", title, instructor.Email).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			course := models.Course{
				InstructorID:    instructor.ID,
				InstructorName:  instructor.Name,
				InstructorEmail: instructor.Email,
				Title:           title,
				Description:     getField(row, headerIndex, "description"),
				ImageURL:        getField(row, headerIndex, "image"),
				Price:           price,
				Capacity:        capacity,
				AvailableSeats:  capacity,
				Status:          models.CourseStatusApproved,
			}
			if err := db.Create(&course).Error; err != nil {
				return result, fmt.Errorf("line %d: insert course: %w", line, err)
			}
			result.Inserted++
		case err != nil:
			return result, fmt.Errorf("line %d: lookup course: %w", line, err)
		default:
			err := db.Model(&existing).Updates(map[string]interface{}{
				"description": getField(row, headerIndex, "description"),
				"image_url":   getField(row, headerIndex, "image"),
				"price":       price,
			}).Error
			if err != nil {
				return result, fmt.Errorf("line %d: update course: %w", line, err)
			}
			result.Updated++
		}
	}

	log.Printf("[SEED] inserted=%d updated=%d skipped=%d", result.Inserted, result.Updated, result.Skipped)
	return result, nil
}

func getField(row []string, headerIndex map[string]int, name string) string {
	i, ok := headerIndex[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
