package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NodeKind_Predicates(t *testing.T) {
	assert.True(t, KindEntityVarItem.CarriesFeatureDefinition())
	assert.True(t, KindNestedColumn.CarriesFeatureDefinition())
	assert.False(t, KindInput.CarriesFeatureDefinition())

	assert.True(t, KindEntityVarItem.IsVarItem())
	assert.True(t, KindInputVarItem.IsVarItem())
	assert.False(t, KindNestedColumn.IsVarItem())

	assert.True(t, KindInput.IsSource())
	assert.True(t, KindSQLTemplate.IsSource())
	assert.False(t, KindEntityVarItem.IsSource())
}

func Test_NodeKind_Validate(t *testing.T) {
	for _, k := range []NodeKind{
		KindPropensity, KindTraining, KindPrediction,
		KindEntityVarItem, KindInputVarItem, KindNestedColumn,
		KindInput, KindSQLTemplate, KindIDStitcher, KindFeatureView,
	} {
		assert.NoError(t, k.Validate())
	}
	assert.Error(t, NodeKind("python_model").Validate())
}

func Test_ParseMode(t *testing.T) {
	m, err := ParseMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	m, err = ParseMode("FALLBACK")
	assert.NoError(t, err)
	assert.True(t, m.IsFallback())

	_, err = ParseMode("lenient")
	assert.Error(t, err)
}

func Test_ParseDialect(t *testing.T) {
	d, err := ParseDialect("Snowflake")
	assert.NoError(t, err)
	assert.Equal(t, DialectSnowflake, d)

	d, err = ParseDialect("postgresql")
	assert.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	_, err = ParseDialect("duckdb")
	assert.Error(t, err)
}
