package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPlanSectionsParsesEachHeader(t *testing.T) {
	plan := "## Auth\nwire login\n\n## Billing\nwire invoice\n\n## Notifications\nwire email\n\n## Docs\nwrite readme\n"

	sections := splitPlanSections(plan)

	require.Len(t, sections, 4)
	assert.Equal(t, "Auth", sections[0].Title)
	assert.Equal(t, "wire login", sections[0].Body)
	assert.Equal(t, "Docs", sections[3].Title)
	assert.Equal(t, "write readme", sections[3].Body)
}

func TestSplitPlanSectionsFallsBackToOneSectionWithoutHeaders(t *testing.T) {
	sections := splitPlanSections("just do the thing, no headers here")

	require.Len(t, sections, 1)
	assert.Equal(t, "implement plan", sections[0].Title)
}

func TestSplitPlanSectionsIgnoresTextBeforeFirstHeader(t *testing.T) {
	plan := "some preamble\n## Setup\ninstall deps\n"

	sections := splitPlanSections(plan)

	require.Len(t, sections, 1)
	assert.Equal(t, "Setup", sections[0].Title)
	assert.Equal(t, "install deps", sections[0].Body)
}
