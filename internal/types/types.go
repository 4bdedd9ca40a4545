// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, sessions, storage and the render pipeline can all import
// types without depending on each other.
package types

// Career is one of the fixed programmes a student can enrol in.
// The set is closed; anything outside it is rejected by the validator.
type Career string

const (
	CareerSystemsEngineering  Career = "systems-engineering"
	CareerSoftwareEngineering Career = "software-engineering"
	CareerComputerScience     Career = "computer-science"
	CareerWebDevelopment      Career = "web-development"
)

// Careers lists every valid career in the order the registry form shows them.
func Careers() []Career {
	return []Career{
		CareerSystemsEngineering,
		CareerSoftwareEngineering,
		CareerComputerScience,
		CareerWebDevelopment,
	}
}

var careerNames = map[Career]string{
	CareerSystemsEngineering:  "Systems Engineering",
	CareerSoftwareEngineering: "Software Engineering",
	CareerComputerScience:     "Computer Science",
	CareerWebDevelopment:      "Web Development",
}

// DisplayName returns the human-readable programme name. Unknown values
// are returned as-is so legacy records still render.
func (c Career) DisplayName() string {
	if name, ok := careerNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c belongs to the closed career set.
func (c Career) Valid() bool {
	_, ok := careerNames[c]
	return ok
}

// Student is one registry entry. ID is the caller-supplied student code
// and is unique across the live collection.
//
// The json tags define the persisted slot format as well as the API shape.
type Student struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Career           Career `json:"career"`
	Semester         int    `json:"semester"`
	RegistrationDate string `json:"registrationDate"`
}

// StudentInput is a candidate record as submitted by a form or the API,
// before validation. Nothing here is trusted yet.
type StudentInput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Career   string `json:"career"`
	Semester int    `json:"semester"`
}
