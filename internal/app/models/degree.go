package models

import "fmt"

// Degree is the academic degree of a lecturer, ordered from lowest to
// highest. The ordering matters: chair eligibility compares against it.
type Degree int

const (
	DegreeBachelor Degree = iota + 1
	DegreeMaster
	DegreeDoctorate
	DegreeAssocProfessor
	DegreeProfessor
)

var degreeNames = map[Degree]string{
	DegreeBachelor:       "BACHELOR",
	DegreeMaster:         "MASTER",
	DegreeDoctorate:      "DOCTORATE",
	DegreeAssocProfessor: "ASSOC_PROFESSOR",
	DegreeProfessor:      "PROFESSOR",
}

// String returns the storage representation of the degree.
func (d Degree) String() string {
	if name, ok := degreeNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// ChairEligible reports whether a lecturer with this degree may preside
// over a committee. The bar is a doctorate.
func (d Degree) ChairEligible() bool {
	return d >= DegreeDoctorate
}

// ParseDegree converts the storage representation back into a Degree.
func ParseDegree(s string) (Degree, error) {
	for degree, name := range degreeNames {
		if name == s {
			return degree, nil
		}
	}
	return 0, fmt.Errorf("unknown degree %q", s)
}

// MarshalJSON encodes the degree as its name.
func (d Degree) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a degree name.
func (d *Degree) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("degree must be a JSON string")
	}
	parsed, err := ParseDegree(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
