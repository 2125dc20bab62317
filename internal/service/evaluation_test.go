package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateDiagnosis(t *testing.T) {
	tests := []struct {
		name       string
		caseName   string
		submission string
		want       bool
	}{
		{
			name:       "exact match",
			caseName:   "Pulp Necrosis",
			submission: "Pulp Necrosis",
			want:       true,
		},
		{
			name:       "containment with surrounding words",
			caseName:   "Pulp Necrosis",
			submission: "I think it's pulp necrosis with no pain",
			want:       true,
		},
		{
			name:       "different diagnosis",
			caseName:   "Pulp Necrosis",
			submission: "pulpitis",
			want:       false,
		},
		{
			name:       "case insensitive",
			caseName:   "Chronic Periodontitis",
			submission: "CHRONIC PERIODONTITIS",
			want:       true,
		},
		{
			name:       "leading and trailing whitespace",
			caseName:   "  Reversible Pulpitis  ",
			submission: "  probably reversible pulpitis  ",
			want:       true,
		},
		{
			name:       "partial term is not enough",
			caseName:   "Acute Periapical Abscess",
			submission: "abscess",
			want:       false,
		},
		{
			name:       "empty submission",
			caseName:   "Pulp Necrosis",
			submission: "",
			want:       false,
		},
		{
			name:       "whitespace-only submission",
			caseName:   "Pulp Necrosis",
			submission: "   ",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateDiagnosis(tt.caseName, tt.submission))
		})
	}
}
