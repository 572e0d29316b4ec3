package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	categoryID  string
	startDate   string
	startTime   string
	durationStr string
}

// StartAt combines the date and time fields into the stored format.
func (fb *formBindings) StartAt() string {
	return fb.startDate + "T" + fb.startTime
}

// DurationValue parses the duration field. The form validator has already
// guaranteed it is numeric.
func (fb *formBindings) DurationValue() float64 {
	n, _ := strconv.ParseFloat(strings.TrimSpace(fb.durationStr), 64)
	return n
}

// buildGoalForm constructs the add/edit form for one timeframe. Field
// validation here keeps obviously broken input out; the service re-checks
// everything on submit.
func buildGoalForm(tf model.Timeframe, fb *formBindings) *huh.Form {
	policy := model.PolicyFor(tf)

	categoryOptions := make([]huh.Option[string], len(model.DefaultCategories))
	for i, c := range model.DefaultCategories {
		categoryOptions[i] = huh.NewOption(c.DisplayName, c.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("give the goal a name")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fb.categoryID),
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&fb.startDate).
				Validate(func(s string) error {
					if _, err := dateutil.ParseDateTime(s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start time").
				Placeholder("HH:MM").
				Value(&fb.startTime).
				Validate(func(s string) error {
					if _, err := dateutil.ParseDateTime("2000-01-01T" + s); err != nil {
						return fmt.Errorf("use HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title(fmt.Sprintf("Duration (%s, %g-%g)", policy.UnitLabel, policy.Min, policy.Max)).
				Value(&fb.durationStr).
				Validate(func(s string) error {
					n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("duration must be a number")
					}
					if n < policy.Min || n > policy.Max {
						return fmt.Errorf("must be between %g and %g", policy.Min, policy.Max)
					}
					return nil
				}),
		),
	)
}
