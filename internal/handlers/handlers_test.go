package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlink/marketplace-api/internal/services/workflow"
)

func TestParseBudget(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"500", 500},
		{"$1200", 1200},
		{"1,250.75", 1250.75},
		{"USD 300", 300},
		{"negotiable", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseBudget(tc.in), "budget %q", tc.in)
	}
}

func TestFailWorkflowStatusMapping(t *testing.T) {
	mk := func(err error) int {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return failWorkflow(c, err)
		})
		resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, testErr)
		return resp.StatusCode
	}

	assert.Equal(t, 400, mk(&workflow.Error{Kind: workflow.KindInvalidArgument, Message: "bad"}))
	assert.Equal(t, 400, mk(&workflow.Error{Kind: workflow.KindInvalidState, Message: "bad state"}))
	assert.Equal(t, 404, mk(&workflow.Error{Kind: workflow.KindNotFound, Message: "gone"}))
	assert.Equal(t, 403, mk(&workflow.Error{Kind: workflow.KindForbidden, Message: "no"}))
	assert.Equal(t, 409, mk(&workflow.Error{Kind: workflow.KindConflict, Message: "taken"}))
	assert.Equal(t, 500, mk(assert.AnError))
}
