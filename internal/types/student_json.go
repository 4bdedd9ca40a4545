package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts the semester either as a number or as the quoted
// string older slots were written with ("3").
func (s *Student) UnmarshalJSON(data []byte) error {
	type plain Student
	var aux struct {
		plain
		Semester json.RawMessage `json:"semester"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Student(aux.plain)

	raw := strings.TrimSpace(string(aux.Semester))
	if raw == "" || raw == "null" {
		s.Semester = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("student %q: invalid semester %s", s.ID, aux.Semester)
	}
	s.Semester = n
	return nil
}
