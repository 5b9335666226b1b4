package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportType(t *testing.T) {
	for _, rt := range AllReportTypes() {
		got, err := ParseReportType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}

	got, err := ParseReportType(" student_monthly ")
	require.NoError(t, err)
	assert.Equal(t, ReportTypeStudentMonthly, got)

	_, err = ParseReportType("quarterly")
	assert.Error(t, err)

	_, err = ParseReportType("")
	assert.Error(t, err)
}

func TestAllReportTypesOrder(t *testing.T) {
	assert.Equal(t, []ReportType{
		ReportTypeStudentMonthly,
		ReportTypeTeacherMonthly,
		ReportTypeAdminMonthly,
	}, AllReportTypes())
}
