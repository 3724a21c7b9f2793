package validator

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	CourseName string `form:"course_name" binding:"required,max=5"`
	CourseID   *int   `form:"course_id" binding:"omitempty,gt=0"`
}

func formContext(body url.Values) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBind_UsesFormFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var dst sample
	fields := Bind(formContext(url.Values{"course_id": {"0"}}), &dst)

	require.Len(t, fields, 2)
	assert.Contains(t, fields["course_name"], "required")
	assert.Contains(t, fields["course_id"], "greater than 0")
}

func TestBind_LeavesAbsentPointersNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var dst sample
	fields := Bind(formContext(url.Values{"course_name": {"Maths"}}), &dst)

	assert.Nil(t, fields)
	assert.Equal(t, "Maths", dst.CourseName)
	assert.Nil(t, dst.CourseID)
}

func TestBind_ConversionError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup()

	var dst sample
	fields := Bind(formContext(url.Values{"course_name": {"Maths"}, "course_id": {"abc"}}), &dst)

	require.Contains(t, fields, "detail")
	assert.Contains(t, fields["detail"], "abc")
}
