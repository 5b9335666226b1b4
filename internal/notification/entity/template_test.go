package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	out, err := RenderText("New assignment in {course_name}: {assignment_title}", map[string]any{
		"course_name":      "Calculus I",
		"assignment_title": "Problem Set 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "New assignment in Calculus I: Problem Set 3", out)
}

func TestRenderTextNonStringValues(t *testing.T) {
	out, err := RenderText("Grade: {grade}/{max_grade}", map[string]any{
		"grade":     87.5,
		"max_grade": 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grade: 87.5/100", out)
}

func TestRenderTextMissingVariable(t *testing.T) {
	_, err := RenderText("Hello {full_name}, welcome to {platform}", map[string]any{
		"platform": "CollegePrep",
	})
	require.Error(t, err)

	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "full_name", rerr.Key)
	assert.Equal(t, "missing template variable: full_name", rerr.Error())
}

func TestRenderTextNoPlaceholders(t *testing.T) {
	out, err := RenderText("Scheduled maintenance tonight", nil)
	require.NoError(t, err)
	assert.Equal(t, "Scheduled maintenance tonight", out)
}

func TestTemplateRender(t *testing.T) {
	tpl := Template{
		Type:            TypeGradePosted,
		TitleTemplate:   "Grade posted for {assignment_title}",
		MessageTemplate: "You scored {grade} in {course_name}.",
	}

	rendered, err := tpl.Render(map[string]any{
		"assignment_title": "Quiz 2",
		"grade":            "9/10",
		"course_name":      "Physics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grade posted for Quiz 2", rendered.Title)
	assert.Equal(t, "You scored 9/10 in Physics.", rendered.Message)
}

func TestTemplateRenderFailsOnFirstMissing(t *testing.T) {
	tpl := Template{
		TitleTemplate:   "{a} and {b}",
		MessageTemplate: "{c}",
	}

	_, err := tpl.Render(map[string]any{"b": "x", "c": "y"})
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "a", rerr.Key)
}
