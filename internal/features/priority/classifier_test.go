package priority

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWithoutKnownTagsIsLow(t *testing.T) {
	assert.Equal(t, Low, Classify(nil))
	assert.Equal(t, Low, Classify([]string{}))
	assert.Equal(t, Low, Classify([]string{"coffee machine", "parking"}))
}

func TestClassifyOnlyCriticalTags(t *testing.T) {
	assert.Equal(t, Critical, Classify([]string{"Violence", "Fraud", "Data Breach"}))
}

func TestClassifyWeightedAverage(t *testing.T) {
	// (4*5 + 1*2) / 7 = 3.14
	assert.Equal(t, High, Classify([]string{"Sexual Harassment", "Facilities"}))
}

func TestClassifySingleLowTag(t *testing.T) {
	assert.Equal(t, Low, Classify([]string{"Minor Defect"}))
}

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		avg  float64
		want Level
	}{
		{4, Critical},
		{3.5, Critical},
		{3.49, High},
		{2.5, High},
		{2.49, Medium},
		{1.5, Medium},
		{1.49, Low},
		{1, Low},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fromAverage(tt.avg), "avg %v", tt.avg)
	}
}

func TestClassifyNormalizesAndDedupes(t *testing.T) {
	// "harassment" twice must not outweigh a single "Payroll"
	once := Classify([]string{"Harassment", "Payroll", "Suggestion"})
	twice := Classify([]string{" harassment ", "HARASSMENT", "Payroll", "Suggestion"})
	assert.Equal(t, once, twice)
	assert.True(t, Known("  minor defect"))
	assert.False(t, Known("unknown"))
}

func TestClassifyIsOrderIndependent(t *testing.T) {
	tags := []string{"Bullying", "Workload", "Suggestion", "Fraud", "nonsense", "Payroll"}
	want := Classify(tags)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]string(nil), tags...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Classify(shuffled))
	}
}

func TestTableIsACopy(t *testing.T) {
	rules := Table()
	rules[0].Weight = 100
	assert.NotEqual(t, 100, Table()[0].Weight)
}
