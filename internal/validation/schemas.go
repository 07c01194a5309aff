package validation

import "strings"

// Input is implemented by every schema type. normalize trims and
// sanitizes the value in place before the constraint checks run, so a
// value that passes validation is already in its canonical form.
type Input interface {
	normalize()
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

func (in *LoginInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

// RegisterInput is the registration form. The password must contain at
// least one lowercase letter, one uppercase letter, and one digit.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100,person_name"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

// CommentInput is a comment on a fishing report. ParentID is set when
// replying to another comment.
type CommentInput struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ReportID int64  `json:"reportId" validate:"required,gt=0"`
	ParentID *int64 `json:"parentId,omitempty" validate:"omitempty,gt=0"`
}

func (in *CommentInput) normalize() {
	in.Content = SanitizeText(strings.TrimSpace(in.Content))
}

// ReportInput is a fishing report submission. Only title and content are
// required; everything else is optional detail.
type ReportInput struct {
	Title          string   `json:"title" validate:"required,min=5,max=200"`
	Content        string   `json:"content" validate:"required,min=10,max=5000"`
	LocationID     *int64   `json:"locationId,omitempty" validate:"omitempty,gt=0"`
	CustomLocation string   `json:"customLocation,omitempty" validate:"omitempty,max=200"`
	Species        string   `json:"species,omitempty" validate:"omitempty,max=100"`
	WeightKg       *float64 `json:"weightKg,omitempty" validate:"omitempty,gt=0,lte=1000"`
	Weather        string   `json:"weather,omitempty" validate:"omitempty,max=200"`
	WaterCondition string   `json:"waterCondition,omitempty" validate:"omitempty,max=200"`
	Bait           string   `json:"bait,omitempty" validate:"omitempty,max=200"`
	Technique      string   `json:"technique,omitempty" validate:"omitempty,max=200"`
	FishedOn       string   `json:"fishedOn,omitempty" validate:"omitempty,date_ymd"`
	FishedAt       string   `json:"fishedAt,omitempty" validate:"omitempty,time_hm"`
	IsPublic       *bool    `json:"isPublic,omitempty"`
	ImageURLs      []string `json:"imageUrls,omitempty" validate:"omitempty,max=10,dive,url"`
}

func (in *ReportInput) normalize() {
	in.Title = SanitizeText(strings.TrimSpace(in.Title))
	in.Content = SanitizeText(strings.TrimSpace(in.Content))
	in.CustomLocation = SanitizeText(strings.TrimSpace(in.CustomLocation))
	in.Species = SanitizeText(strings.TrimSpace(in.Species))
	in.Weather = SanitizeText(strings.TrimSpace(in.Weather))
	in.WaterCondition = SanitizeText(strings.TrimSpace(in.WaterCondition))
	in.Bait = SanitizeText(strings.TrimSpace(in.Bait))
	in.Technique = SanitizeText(strings.TrimSpace(in.Technique))
	in.FishedOn = strings.TrimSpace(in.FishedOn)
	in.FishedAt = strings.TrimSpace(in.FishedAt)
	for i, u := range in.ImageURLs {
		in.ImageURLs[i] = strings.TrimSpace(u)
	}
}

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

func (in *ContactInput) normalize() {
	in.Name = SanitizeText(strings.TrimSpace(in.Name))
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = SanitizeText(strings.TrimSpace(in.Subject))
	in.Message = SanitizeText(strings.TrimSpace(in.Message))
}

// ProfileUpdateInput updates the user's own profile.
type ProfileUpdateInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100,person_name"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location string `json:"location,omitempty" validate:"omitempty,max=100"`
}

func (in *ProfileUpdateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = SanitizeText(strings.TrimSpace(in.Bio))
	in.Location = SanitizeText(strings.TrimSpace(in.Location))
}

// PasswordChangeInput changes the password of a logged-in user. The
// confirmation mismatch is attributed to the confirmPassword field.
type PasswordChangeInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (in *PasswordChangeInput) normalize() {}
