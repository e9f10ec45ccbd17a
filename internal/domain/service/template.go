package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/valyala/fasttemplate"
)

// Template context keys available to notification templates.
const (
	TemplateKeyTitle       = "title"
	TemplateKeyVenue       = "venue"
	TemplateKeyDate        = "date"
	TemplateKeyDescription = "description"
)

// Templates a freshly created notification config starts with.
const (
	DefaultSubjectTemplate = "New event: {title}"
	DefaultMessageTemplate = "{title} starts at {date} ({venue}). {description}"
)

const (
	defaultSubjectFormat = "New event: %s"
	defaultBodyFormat    = "You are invited to %s (%s)"
)

// doubled braces render as literal braces
const (
	escapedOpen  = "\x00"
	escapedClose = "\x01"
)

// RenderTemplate substitutes {key} placeholders from values.
// It fails with errorz.ErrUnknownPlaceholder when the template names a key
// missing from values. An unclosed brace is kept as literal text.
func RenderTemplate(template string, values map[string]string) (string, error) {
	escaped := strings.NewReplacer("{{", escapedOpen, "}}", escapedClose).Replace(template)

	rendered, err := fasttemplate.ExecuteFuncStringWithErr(escaped, "{", "}", func(w io.Writer, tag string) (int, error) {
		value, ok := values[tag]
		if !ok {
			return 0, fmt.Errorf("%w: {%s}", errorz.ErrUnknownPlaceholder, tag)
		}
		return w.Write([]byte(value))
	})
	if err != nil {
		if errors.Is(err, errorz.ErrUnknownPlaceholder) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errorz.ErrInvalidTemplate, err)
	}

	return strings.NewReplacer(escapedOpen, "{", escapedClose, "}").Replace(rendered), nil
}

// RenderTemplates renders the subject and body templates. Any rendering failure
// falls back to the default subject and body built from the title and date values.
func RenderTemplates(subjectTemplate, bodyTemplate string, values map[string]string) (subject, body string) {
	var err error
	subject, err = RenderTemplate(subjectTemplate, values)
	if err == nil {
		body, err = RenderTemplate(bodyTemplate, values)
	}
	if err != nil {
		return DefaultSubject(values), DefaultBody(values)
	}
	return subject, body
}

func DefaultSubject(values map[string]string) string {
	return fmt.Sprintf(defaultSubjectFormat, values[TemplateKeyTitle])
}

func DefaultBody(values map[string]string) string {
	return fmt.Sprintf(defaultBodyFormat, values[TemplateKeyTitle], values[TemplateKeyDate])
}

// validateTemplate rejects templates that could never render for an event.
func validateTemplate(template string) error {
	_, err := RenderTemplate(template, map[string]string{
		TemplateKeyTitle:       "",
		TemplateKeyVenue:       "",
		TemplateKeyDate:        "",
		TemplateKeyDescription: "",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errorz.ErrValidation, err)
	}
	return nil
}
