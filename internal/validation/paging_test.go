package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePaging(t *testing.T) {
	tests := []struct {
		name     string
		pageNo   int
		pageSize int
		wantErr  bool
	}{
		{name: "first page", pageNo: 1, pageSize: 10},
		{name: "max page size", pageNo: 3, pageSize: MaxPageSize},
		{name: "zero page number", pageNo: 0, pageSize: 10, wantErr: true},
		{name: "negative page number", pageNo: -1, pageSize: 10, wantErr: true},
		{name: "zero page size", pageNo: 1, pageSize: 0, wantErr: true},
		{name: "page size too large", pageNo: 1, pageSize: MaxPageSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaging(tt.pageNo, tt.pageSize)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	assert.NoError(t, ValidateToken("abc"))
	assert.NoError(t, ValidateToken(strings.Repeat("f", MaxTokenLen)))
	assert.Error(t, ValidateToken(""))
	assert.Error(t, ValidateToken(strings.Repeat("f", MaxTokenLen+1)))
}
