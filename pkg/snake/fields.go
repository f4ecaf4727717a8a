package snake

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/agenda/pkg/booking"
	"tableflip.dev/agenda/pkg/price"
	"tableflip.dev/agenda/pkg/timeutil"
)

type field struct {
	label    string
	value    *string
	required bool
	validate func(string) error
}

// PromptDraft asks for every empty field of d. Required fields must be
// answered; optional ones may be left blank.
func PromptDraft(cmd *cobra.Command, d *booking.Draft) error {
	clock := func(s string) error {
		_, err := timeutil.ParseClock(s)
		return err
	}
	fields := []field{
		{label: "Date (YYYY-MM-DD)", value: &d.Date, required: true, validate: func(s string) error {
			_, err := timeutil.ParseDate(s)
			return err
		}},
		{label: "Start (HH:MM)", value: &d.StartTime, required: true, validate: clock},
		{label: "End (HH:MM)", value: &d.EndTime, required: true, validate: func(s string) error {
			if err := clock(s); err != nil {
				return err
			}
			return timeutil.ValidateTimeRange(d.StartTime, s)
		}},
		{label: "Client", value: &d.Client, required: true},
		{label: "Phone", value: &d.Phone},
		{label: "Address", value: &d.Address},
		{label: "Price per hour", value: &d.PricePerHour, validate: func(s string) error {
			_, err := price.Parse(s)
			return err
		}},
	}

	for _, f := range fields {
		if strings.TrimSpace(*f.value) != "" {
			continue
		}
		v, err := promptField(cmd, f)
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

func promptField(cmd *cobra.Command, f field) (string, error) {
	validate := func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			if f.required {
				return errors.New("empty")
			}
			return nil
		}
		if f.validate != nil {
			return f.validate(input)
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "{{ . | bold }}: ",
	}

	prompt := promptui.Prompt{
		Label:     f.label,
		Templates: templates,
		Validate:  validate,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}
