package seeders

import (
	"fmt"
	"log"
	"time"

	"classtrack_go/database"
	"classtrack_go/models"
	"classtrack_go/utils"
)

// SeedDemoData populates a demo teacher with a class, students and a few
// message templates. Idempotent: skips when the demo teacher already exists.
func SeedDemoData() error {
	var count int64
	database.DB.Model(&models.Teacher{}).Where("email = ?", "demo@classtrack.local").Count(&count)
	if count > 0 {
		log.Println("Demo data already seeded, skipping...")
		return nil
	}

	log.Println("Seeding demo data...")

	teacher, err := seedDemoTeacher()
	if err != nil {
		return err
	}

	class, err := seedDemoClass(teacher.ID)
	if err != nil {
		return err
	}

	if err := seedDemoStudents(teacher.ID, class.ID); err != nil {
		return err
	}

	if err := seedDemoTemplates(teacher.ID); err != nil {
		return err
	}

	log.Println("Demo data seeded successfully")
	return nil
}

func seedDemoTeacher() (*models.Teacher, error) {
	hashed, err := utils.HashPassword("demo1234")
	if err != nil {
		return nil, err
	}

	teacher := models.Teacher{
		Name:     "Demo Teacher",
		Email:    "demo@classtrack.local",
		Password: hashed,
		School:   "Demo Elementary School",
		Subjects: models.JSON(`["Math","Science"]`),
		Active:   true,
	}
	if err := database.DB.Create(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func seedDemoClass(teacherID uint) (*models.Class, error) {
	class := models.Class{
		TeacherID:    teacherID,
		Name:         "Math 101",
		Subject:      "Math",
		Grade:        "Grade 5",
		AcademicYear: "2026",
		ClassCode:    "DEMO-MATH-101",
		Room:         "B204",
		Capacity:     30,
		Status:       "active",
		StartDate:    time.Now().AddDate(0, -1, 0),
		Semester:     "1",
	}
	if err := database.DB.Create(&class).Error; err != nil {
		return nil, err
	}

	slots := []models.ClassScheduleSlot{
		{ClassID: class.ID, Day: "monday", StartTime: "09:00", EndTime: "09:45", DurationMin: 45, Room: "B204"},
		{ClassID: class.ID, Day: "wednesday", StartTime: "10:00", EndTime: "10:45", DurationMin: 45, Room: "B204"},
	}
	for _, slot := range slots {
		if err := database.DB.Create(&slot).Error; err != nil {
			log.Printf("Error seeding schedule slot: %v", err)
		}
	}

	return &class, nil
}

func seedDemoStudents(teacherID, classID uint) error {
	names := []string{"Alice Chen", "Ben Carter", "Chloe Adams", "Daniel Reyes", "Emma Park"}

	for i, name := range names {
		code := fmt.Sprintf("DEMO-S%03d", i+1)
		student := models.Student{
			TeacherID:   teacherID,
			ClassID:     classID,
			Name:        name,
			SeatNumber:  i + 1,
			StudentCode: &code,
			Active:      true,
			EnrolledAt:  time.Now().AddDate(0, -1, 0),
		}
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student %s: %v", name, err)
			continue
		}
	}

	return database.DB.Model(&models.Class{}).Where("id = ?", classID).
		Update("current_students", len(names)).Error
}

func seedDemoTemplates(teacherID uint) error {
	templates := []models.Template{
		{
			TeacherID: teacherID,
			Name:      "Absence notice",
			Type:      "email",
			Category:  "attendance",
			Subject:   "Absence on {{date}}",
			Body:      "Dear {{parent_name}}, {{student_name}} was absent on {{date}}.",
			Variables: models.JSON(`["parent_name","student_name","date"]`),
			Public:    true,
		},
		{
			TeacherID: teacherID,
			Name:      "Positive behavior note",
			Type:      "sms",
			Category:  "behavior",
			Body:      "{{student_name}} showed great effort in class today.",
			Variables: models.JSON(`["student_name"]`),
			Public:    true,
		},
	}

	for _, tpl := range templates {
		if err := database.DB.Create(&tpl).Error; err != nil {
			log.Printf("Error seeding template %s: %v", tpl.Name, err)
		}
	}
	return nil
}
