package web

import (
	"time"

	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/media"
	"github.com/opencourse/campus/pkg/profile"
)

// ProfileView is the JSON shape of a profile.
type ProfileView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	FullName string `json:"full_name,omitempty"`
}

func profileView(p *profile.Profile) ProfileView {
	v := ProfileView{
		ID:     p.ID,
		Email:  p.Email,
		Role:   string(p.Role),
		Status: string(p.Status),
	}
	if p.FullName.Valid {
		v.FullName = p.FullName.String
	}
	return v
}

func profileViews(profiles []*profile.Profile) []ProfileView {
	views := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, profileView(p))
	}
	return views
}

// CourseView is the JSON shape of a course.
type CourseView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AuthorID    string   `json:"author_id"`
	Status      string   `json:"status"`
	Locked      bool     `json:"locked"`
	Price       *float64 `json:"price,omitempty"`
}

func courseView(c *course.Course) CourseView {
	v := CourseView{
		ID:       c.ID,
		Title:    c.Title,
		AuthorID: c.AuthorID,
		Status:   string(c.Status),
		Locked:   c.Locked,
	}
	if c.Description.Valid {
		v.Description = c.Description.String
	}
	if c.Price.Valid {
		price := c.Price.Float64
		v.Price = &price
	}
	return v
}

func courseViews(courses []*course.Course) []CourseView {
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, courseView(c))
	}
	return views
}

// ResourceView is the JSON shape of a gated resource. Unavailable items
// keep their place in the list with no URL.
type ResourceView struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	URL         string     `json:"url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Unavailable bool       `json:"unavailable,omitempty"`
}

func resourceViews(gated []*media.GatedResource) []ResourceView {
	views := make([]ResourceView, 0, len(gated))
	for _, g := range gated {
		v := ResourceView{
			ID:          g.ID,
			Type:        string(g.Type),
			Title:       g.Title,
			URL:         g.URL,
			Unavailable: g.Unavailable,
		}
		if !g.ExpiresAt.IsZero() {
			expires := g.ExpiresAt
			v.ExpiresAt = &expires
		}
		views = append(views, v)
	}
	return views
}

// StudentRosterView is one row of a course roster.
type StudentRosterView struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name,omitempty"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

func rosterViews(students []*course.EnrolledStudent) []StudentRosterView {
	views := make([]StudentRosterView, 0, len(students))
	for _, st := range students {
		v := StudentRosterView{
			UserID:     st.UserID,
			Email:      st.Email,
			EnrolledAt: st.EnrolledAt,
		}
		if st.FullName.Valid {
			v.FullName = st.FullName.String
		}
		views = append(views, v)
	}
	return views
}
