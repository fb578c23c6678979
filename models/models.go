package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Teacher is the tenant account. Every other entity carries a TeacherID and
// is only ever read or written through that scope.
type Teacher struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:200;not null"`
	Email      string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password   string     `json:"-" gorm:"size:255;not null"`
	Phone      string     `json:"phone" gorm:"size:20"`
	School     string     `json:"school" gorm:"size:255"`
	Subjects   JSON       `json:"subjects" gorm:"type:json"`
	Avatar     string     `json:"avatar" gorm:"size:500"`
	Department string     `json:"department" gorm:"size:100"`
	EmployeeID string     `json:"employee_id" gorm:"size:100"`
	HireDate   *time.Time `json:"hire_date"`
	Bio        string     `json:"bio" gorm:"type:text"`

	// Preference bag: language, theme, notification flags, dashboard layout,
	// timezone, date/time formats. Free-form JSON, the UI owns its shape.
	Preferences JSON `json:"preferences" gorm:"type:json"`

	AttendanceThreshold int    `json:"attendance_threshold" gorm:"default:75"`
	GradingScale        string `json:"grading_scale" gorm:"size:20;default:'percentage';type:enum('percentage','letter','points')"`
	BehaviorTracking    bool   `json:"behavior_tracking" gorm:"default:true"`
	ParentCommunication bool   `json:"parent_communication" gorm:"default:true"`

	Active      bool       `json:"active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Class model
type Class struct {
	BaseModel
	TeacherID    uint   `json:"teacher_id" gorm:"not null;index"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Subject      string `json:"subject" gorm:"size:100;not null"`
	Description  string `json:"description" gorm:"type:text"`
	Grade        string `json:"grade" gorm:"size:50;not null"`
	AcademicYear string `json:"academic_year" gorm:"size:20"`
	ClassCode    string `json:"class_code" gorm:"size:50;uniqueIndex"`
	Room         string `json:"room" gorm:"size:100"`
	Capacity     int    `json:"capacity" gorm:"default:30"`

	// Grading-weight configuration. Teacher-supplied percentages; no
	// sum-to-100 constraint is enforced and no code path blends the three.
	AttendanceWeight int `json:"attendance_weight" gorm:"default:30"`
	BehaviorWeight   int `json:"behavior_weight" gorm:"default:20"`
	AssignmentWeight int `json:"assignment_weight" gorm:"default:50"`
	MaxAbsences      int `json:"max_absences" gorm:"default:10"`

	Status    string     `json:"status" gorm:"size:20;not null;default:'active';type:enum('active','inactive','archived')"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Semester  string     `json:"semester" gorm:"size:50"`

	// Best-effort roster counter, maintained on enroll/remove without a
	// transaction. Concurrent enrollments can race; last writer wins.
	CurrentStudents int `json:"current_students" gorm:"default:0"`

	// Relationships
	Teacher       Teacher             `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	ScheduleSlots []ClassScheduleSlot `json:"schedule_slots,omitempty" gorm:"foreignKey:ClassID"`
	Students      []Student           `json:"students,omitempty" gorm:"foreignKey:ClassID"`
}

// ClassScheduleSlot is one weekly meeting entry of a class.
type ClassScheduleSlot struct {
	BaseModel
	ClassID     uint   `json:"class_id" gorm:"not null;index"`
	Day         string `json:"day" gorm:"size:20;not null;type:enum('sunday','monday','tuesday','wednesday','thursday','friday','saturday')"`
	StartTime   string `json:"start_time" gorm:"size:10;not null"`
	EndTime     string `json:"end_time" gorm:"size:10;not null"`
	DurationMin int    `json:"duration_min" gorm:"default:45"`
	Room        string `json:"room" gorm:"size:100"`
}

// Student model
type Student struct {
	BaseModel
	TeacherID   uint       `json:"teacher_id" gorm:"not null;index"`
	ClassID     uint       `json:"class_id" gorm:"not null;uniqueIndex:idx_class_seat"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	SeatNumber  int        `json:"seat_number" gorm:"not null;uniqueIndex:idx_class_seat"`
	StudentCode *string    `json:"student_code" gorm:"size:100;uniqueIndex"`
	Avatar      string     `json:"avatar" gorm:"size:500"`
	Phone       string     `json:"phone" gorm:"size:20"`
	Email       string     `json:"email" gorm:"size:255"`
	Gender      string     `json:"gender" gorm:"size:20;type:enum('male','female')"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Grade       string     `json:"grade" gorm:"size:50"`

	ParentName   string `json:"parent_name" gorm:"size:200"`
	ParentPhone  string `json:"parent_phone" gorm:"size:20"`
	ParentEmail  string `json:"parent_email" gorm:"size:255"`
	ParentLineID string `json:"parent_line_id" gorm:"size:100"`

	Notes      string    `json:"notes" gorm:"type:text"`
	Tags       JSON      `json:"tags" gorm:"type:json"`
	Active     bool      `json:"active" gorm:"default:true"`
	EnrolledAt time.Time `json:"enrolled_at"`

	// Relationships
	Class Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Attendance model. At most one record per (student, date), enforced by the
// composite unique index.
type Attendance struct {
	BaseModel
	TeacherID uint      `json:"teacher_id" gorm:"not null;index"`
	ClassID   uint      `json:"class_id" gorm:"not null;index"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_student_date"`
	Date      time.Time `json:"date" gorm:"not null;uniqueIndex:idx_student_date"`
	Status    string    `json:"status" gorm:"size:20;not null;type:enum('present','absent','late','excused')"`
	Notes     string    `json:"notes" gorm:"size:500"`
	MarkedAt  time.Time `json:"marked_at"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Class   Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Assignment model
type Assignment struct {
	BaseModel
	TeacherID    uint       `json:"teacher_id" gorm:"not null;index"`
	ClassID      uint       `json:"class_id" gorm:"not null;index"`
	Title        string     `json:"title" gorm:"size:255;not null"`
	Description  string     `json:"description" gorm:"type:text"`
	Type         string     `json:"type" gorm:"size:50;not null;type:enum('homework','quiz','exam','project','participation','lab','presentation','essay','research','practical')"`
	MaxScore     float64    `json:"max_score" gorm:"not null"`
	Weight       float64    `json:"weight" gorm:"not null"` // percentage contribution to the class grade
	DueDate      *time.Time `json:"due_date"`
	AssignedAt   time.Time  `json:"assigned_at"`
	Published    bool       `json:"published" gorm:"default:false"`
	Instructions string     `json:"instructions" gorm:"type:text"`
	Status       string     `json:"status" gorm:"size:20;default:'draft';type:enum('draft','published','closed','graded')"`

	// Relationships
	Class Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Grade model. One record per (student, assignment). Percentage is computed
// once when the grade is recorded and is not re-derived if the assignment's
// max score changes later.
type Grade struct {
	BaseModel
	TeacherID    uint      `json:"teacher_id" gorm:"not null;index"`
	ClassID      uint      `json:"class_id" gorm:"not null;index"`
	StudentID    uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_student_assignment"`
	AssignmentID uint      `json:"assignment_id" gorm:"not null;uniqueIndex:idx_student_assignment"`
	Score        float64   `json:"score" gorm:"not null"`
	MaxScore     float64   `json:"max_score" gorm:"not null"`
	Percentage   float64   `json:"percentage" gorm:"not null"`
	Notes        string    `json:"notes" gorm:"size:500"`
	GradedAt     time.Time `json:"graded_at"`

	// Relationships
	Student    Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Class      Class      `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Behavior model. Points are signed; negative incidents carry negative points.
type Behavior struct {
	BaseModel
	TeacherID   uint      `json:"teacher_id" gorm:"not null;index"`
	ClassID     uint      `json:"class_id" gorm:"not null;index"`
	StudentID   uint      `json:"student_id" gorm:"not null;index"`
	Type        string    `json:"type" gorm:"size:20;not null;type:enum('positive','negative')"`
	Category    string    `json:"category" gorm:"size:100"`
	Description string    `json:"description" gorm:"size:500"`
	Points      int       `json:"points"`
	Date        time.Time `json:"date" gorm:"not null"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Class   Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Activity model for classroom events (trips, meetings, celebrations)
type Activity struct {
	BaseModel
	TeacherID       uint       `json:"teacher_id" gorm:"not null;index"`
	ClassID         *uint      `json:"class_id" gorm:"index"`
	Title           string     `json:"title" gorm:"size:255;not null"`
	Description     string     `json:"description" gorm:"type:text"`
	Type            string     `json:"type" gorm:"size:50"`
	Location        string     `json:"location" gorm:"size:255"`
	StartDate       time.Time  `json:"start_date" gorm:"not null;index"`
	EndDate         *time.Time `json:"end_date"`
	Status          string     `json:"status" gorm:"size:20;default:'scheduled';type:enum('scheduled','in_progress','completed','cancelled','postponed')"`
	Priority        string     `json:"priority" gorm:"size:20;default:'medium';type:enum('low','medium','high','urgent')"`
	Reminder        bool       `json:"reminder" gorm:"default:false"`
	ReminderMinutes int        `json:"reminder_minutes" gorm:"default:60"`

	// Relationships
	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Notification model
type Notification struct {
	BaseModel
	TeacherID   uint       `json:"teacher_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Message     string     `json:"message" gorm:"type:text;not null"`
	Type        string     `json:"type" gorm:"size:20;not null;default:'info';type:enum('info','warning','success','error','reminder')"`
	Priority    string     `json:"priority" gorm:"size:20;default:'medium';type:enum('low','medium','high')"`
	RelatedType string     `json:"related_type" gorm:"size:50"`
	RelatedID   uint       `json:"related_id"`
	Read        bool       `json:"read" gorm:"default:false"`
	ReadAt      *time.Time `json:"read_at"`
}

// Schedule is a recurring weekly teaching slot. A teacher cannot hold two
// identical slots; the composite index enforces it.
type Schedule struct {
	BaseModel
	TeacherID    uint   `json:"teacher_id" gorm:"not null;uniqueIndex:idx_teacher_slot"`
	ClassID      uint   `json:"class_id" gorm:"not null;index"`
	Title        string `json:"title" gorm:"size:255"`
	DayOfWeek    string `json:"day_of_week" gorm:"size:20;not null;uniqueIndex:idx_teacher_slot;type:enum('sunday','monday','tuesday','wednesday','thursday','friday','saturday')"`
	StartTime    string `json:"start_time" gorm:"size:10;not null;uniqueIndex:idx_teacher_slot"`
	EndTime      string `json:"end_time" gorm:"size:10;not null;uniqueIndex:idx_teacher_slot"`
	Room         string `json:"room" gorm:"size:100"`
	AcademicYear string `json:"academic_year" gorm:"size:20"`
	Active       bool   `json:"active" gorm:"default:true"`

	// Relationships
	Class Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Message model for parent/student communication
type Message struct {
	BaseModel
	TeacherID     uint       `json:"teacher_id" gorm:"not null;index"`
	StudentID     *uint      `json:"student_id" gorm:"index"`
	RecipientType string     `json:"recipient_type" gorm:"size:20;not null;type:enum('parent','student','teacher')"`
	RecipientName string     `json:"recipient_name" gorm:"size:200"`
	Channel       string     `json:"channel" gorm:"size:20;not null;type:enum('email','sms','notification','announcement','line')"`
	Subject       string     `json:"subject" gorm:"size:255"`
	Body          string     `json:"body" gorm:"type:text;not null"`
	Priority      string     `json:"priority" gorm:"size:20;default:'medium';type:enum('low','medium','high','urgent')"`
	Status        string     `json:"status" gorm:"size:20;default:'draft';type:enum('draft','sent','delivered','read','failed')"`
	SentAt        *time.Time `json:"sent_at"`

	// Relationships
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Template model for reusable message/report bodies
type Template struct {
	BaseModel
	TeacherID  uint   `json:"teacher_id" gorm:"not null;index"`
	Name       string `json:"name" gorm:"size:255;not null"`
	Type       string `json:"type" gorm:"size:20;not null;type:enum('email','sms','report','certificate','letter')"`
	Category   string `json:"category" gorm:"size:20;not null;default:'general';type:enum('attendance','behavior','grades','announcement','reminder','general')"`
	Subject    string `json:"subject" gorm:"size:255"`
	Body       string `json:"body" gorm:"type:text;not null"`
	Variables  JSON   `json:"variables" gorm:"type:json"`
	Public     bool   `json:"public" gorm:"default:false"`
	UsageCount int    `json:"usage_count" gorm:"default:0"`
}

// Submission model. One submission per (student, assignment).
type Submission struct {
	BaseModel
	TeacherID    uint      `json:"teacher_id" gorm:"not null;index"`
	AssignmentID uint      `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_pair"`
	StudentID    uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_submission_pair"`
	Content      string    `json:"content" gorm:"type:text"`
	Attachments  JSON      `json:"attachments" gorm:"type:json"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Late         bool      `json:"late" gorm:"default:false"`
	Status       string    `json:"status" gorm:"size:20;default:'draft';type:enum('draft','submitted','graded','returned')"`
	Attempt      int       `json:"attempt" gorm:"default:1"`

	// Relationships
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Student    Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Report is a materialized aggregation snapshot. Data holds the generated
// summary and per-student rows; editing title/filters does not regenerate it.
type Report struct {
	BaseModel
	TeacherID   uint       `json:"teacher_id" gorm:"not null;index"`
	ClassID     uint       `json:"class_id" gorm:"not null;index"`
	StudentID   *uint      `json:"student_id" gorm:"index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Type        string     `json:"type" gorm:"size:20;not null;type:enum('attendance','grades','behavior','comprehensive')"`
	StartDate   time.Time  `json:"start_date" gorm:"not null"`
	EndDate     time.Time  `json:"end_date" gorm:"not null"`
	Filters     JSON       `json:"filters" gorm:"type:json"`
	Data        JSON       `json:"data" gorm:"type:json"`
	Generated   bool       `json:"generated" gorm:"default:false"`
	GeneratedAt *time.Time `json:"generated_at"`
	FileURL     string     `json:"file_url" gorm:"size:500"`

	// Relationships
	Class   Class    `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Analytics is a time-bucketed computed-metrics row, lazily populated on
// first read for a scope and appended to on explicit regeneration.
type Analytics struct {
	BaseModel
	TeacherID uint      `json:"teacher_id" gorm:"not null;index:idx_analytics_scope"`
	ClassID   *uint     `json:"class_id" gorm:"index"`
	StudentID *uint     `json:"student_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:20;not null;index:idx_analytics_scope;type:enum('attendance','grades','behavior')"`
	Period    string    `json:"period" gorm:"size:20;not null;index:idx_analytics_scope;type:enum('daily','weekly','monthly','semester','yearly')"`
	Date      time.Time `json:"date" gorm:"not null;index:idx_analytics_scope"`
	Metrics   JSON      `json:"metrics" gorm:"type:json"`
}

// ActivityLog for audit tracking
type ActivityLog struct {
	BaseModel
	TeacherID  uint   `json:"teacher_id" gorm:"index"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`
}
