package stagerunner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/agentforge/pkg/models"
)

func TestComputeGateAllValidHighConfidence(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("word ", 200)
	gate := ComputeGate(models.RoleCoder, []string{long, long}, []bool{true, true})
	assert.True(t, gate.AllSchemasOK)
	assert.Equal(t, 2, gate.ValidCount)
	assert.Equal(t, 100, gate.PassRatePct)
	assert.True(t, gate.Passed)
}

func TestComputeGatePartiallyValidLowersConfidence(t *testing.T) {
	t.Parallel()
	gate := ComputeGate(models.RoleCoder, []string{"ok output here", "x"}, []bool{true, false})
	assert.False(t, gate.AllSchemasOK)
	assert.Equal(t, 1, gate.ValidCount)
	assert.Equal(t, 50, gate.PassRatePct)
}

func TestComputeGateEmptyOutputsFails(t *testing.T) {
	t.Parallel()
	gate := ComputeGate(models.RoleCoder, nil, nil)
	assert.False(t, gate.Passed)
}

func TestValidateSchemaRejectsTooShort(t *testing.T) {
	t.Parallel()
	assert.False(t, ValidateSchema(models.RoleResearcher, "too short"))
}

func TestValidateSchemaRequiresHeadingForResearcher(t *testing.T) {
	t.Parallel()
	noHeading := strings.Repeat("word ", 60)
	assert.False(t, ValidateSchema(models.RoleResearcher, noHeading))

	withHeading := "# Findings\n" + strings.Repeat("word ", 60)
	assert.True(t, ValidateSchema(models.RoleResearcher, withHeading))
}

func TestValidateSchemaCoderHasNoHeadingRequirement(t *testing.T) {
	t.Parallel()
	assert.True(t, ValidateSchema(models.RoleCoder, "func main() {\n\tfmt.Println(\"hello world, this is a longer snippet\")\n}"))
}
