package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDepartment(t *testing.T) {
	cases := []struct {
		category string
		want     string
	}{
		{"Road Infrastructure", "PWD"},
		{"Water Supply", "Water Department"},
		{"Electricity", "Electricity Board"},
		{"Waste Management", "Sanitation Department"},
		{"Public Transport", "Transport Department"},
		{"Healthcare", "Health Department"},
		{"Education", "Education Department"},
		{"Public Safety", "Police Department"},
		{"Parks & Recreation", "Parks Department"},
		{"Building Permits", "Municipal Corporation"},
		{"Stray Animals", "General"},
		{"", "General"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveDepartment(tc.category), "category %q", tc.category)
	}
}

func TestResolveDepartmentCoversAllCategories(t *testing.T) {
	for _, category := range Categories {
		assert.True(t, ValidCategory(category))
		assert.NotEqual(t, DefaultDepartment, ResolveDepartment(category),
			"fixed category %q must have an owning department", category)
	}
}

func TestProgressStepsCompleted(t *testing.T) {
	assert.Equal(t, 0, ProgressSteps{}.Completed())
	assert.Equal(t, 1, ProgressSteps{Step2: true}.Completed())
	assert.Equal(t, 3, ProgressSteps{Step1: true, Step2: true, Step3: true}.Completed())
}

func TestComplaintUpvotedByUser(t *testing.T) {
	c := Complaint{UpvotedBy: []string{"a", "b"}}
	assert.True(t, c.UpvotedByUser("a"))
	assert.False(t, c.UpvotedByUser("c"))
	assert.False(t, Complaint{}.UpvotedByUser("a"))
}
