package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "only separators and spaces", raw: " , ,", want: nil},
		{name: "single broker", raw: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and drops empties", raw: " kafka-1:9092 ,, kafka-2:9092 ,", want: []string{"kafka-1:9092", "kafka-2:9092"}},
		{name: "keeps first occurrence", raw: "b,a,b,c,a", want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.raw, ","))
		})
	}
}
