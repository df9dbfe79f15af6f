package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/service"
)

func TestExitCode(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, 2, exitCode(ctx, apperror.Validation("name", service.ErrNameRequired)))
	assert.Equal(t, 1, exitCode(ctx, apperror.NotFound("subscription", errors.New("no such record"))))
	assert.Equal(t, 1, exitCode(ctx, apperror.Storage(errors.New("disk error"), "could not save subscription")))
	assert.Equal(t, 1, exitCode(ctx, errors.New("boom")))
}

func TestCategoryHelp(t *testing.T) {
	t.Parallel()

	parts := strings.Split(categoryHelp(), "|")
	assert.Len(t, parts, len(model.Categories()))
	for _, c := range model.Categories() {
		assert.Contains(t, parts, string(c))
	}
}
