package render

import (
	"github.com/aanand-mishra/deals-registry/internal/types"
	"github.com/aanand-mishra/deals-registry/internal/view"
)

type StudentCard struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	CareerCode       string `json:"career"`
	Career           string `json:"careerName"`
	Semester         int    `json:"semester"`
	RegistrationDate string `json:"registrationDate"`
}

// StudentListing is the rendered registry list. Total counts the whole
// collection; Cards may be a filtered subset. Message is set only when
// Cards is empty.
type StudentListing struct {
	Total   int           `json:"total"`
	Cards   []StudentCard `json:"students"`
	Message string        `json:"message,omitempty"`
}

func Students(records []types.Student, total int) StudentListing {
	listing := StudentListing{Total: total, Cards: make([]StudentCard, 0, len(records))}
	for _, s := range records {
		listing.Cards = append(listing.Cards, Student(s))
	}

	if len(listing.Cards) == 0 {
		listing.Message = view.MsgNoStudents
		if total > 0 {
			listing.Message = view.MsgNoMatches
		}
	}
	return listing
}

// Student renders one record with its career display name.
func Student(s types.Student) StudentCard {
	return StudentCard{
		ID:               s.ID,
		Name:             s.Name,
		Email:            s.Email,
		CareerCode:       string(s.Career),
		Career:           s.Career.DisplayName(),
		Semester:         s.Semester,
		RegistrationDate: s.RegistrationDate,
	}
}
