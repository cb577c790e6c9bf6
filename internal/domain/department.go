package domain

// DefaultDepartment receives complaints whose category has no owning unit.
const DefaultDepartment = "General"

// Categories is the fixed set of reportable issue categories.
var Categories = []string{
	"Road Infrastructure",
	"Water Supply",
	"Electricity",
	"Waste Management",
	"Public Transport",
	"Healthcare",
	"Education",
	"Public Safety",
	"Parks & Recreation",
	"Building Permits",
}

var departmentByCategory = map[string]string{
	"Road Infrastructure": "PWD",
	"Water Supply":        "Water Department",
	"Electricity":         "Electricity Board",
	"Waste Management":    "Sanitation Department",
	"Public Transport":    "Transport Department",
	"Healthcare":          "Health Department",
	"Education":           "Education Department",
	"Public Safety":       "Police Department",
	"Parks & Recreation":  "Parks Department",
	"Building Permits":    "Municipal Corporation",
}

// ResolveDepartment maps a complaint category to its owning department.
// Total over all inputs; unmapped categories fall back to DefaultDepartment.
func ResolveDepartment(category string) string {
	if dept, ok := departmentByCategory[category]; ok {
		return dept
	}
	return DefaultDepartment
}

// ValidCategory reports whether the category belongs to the fixed set.
func ValidCategory(category string) bool {
	_, ok := departmentByCategory[category]
	return ok
}
