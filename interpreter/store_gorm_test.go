package interpreter

import (
	"errors"
	"testing"

	"github.com/campusworks/assets_backend/utils"
	"gorm.io/gorm"
)

func TestStoreErr_TagsInfrastructureFailures(t *testing.T) {
	err := storeErr(errors.New("dial tcp 10.0.0.5:3306: connect: connection refused"))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStoreErr_PassesUserMeaningfulErrorsThrough(t *testing.T) {
	cases := []error{
		nil,
		gorm.ErrRecordNotFound,
		utils.ErrorRecordNotFound,
		utils.InvalidInput("duplicate service_tag"),
		utils.InvalidInput("cost must not be negative"),
	}
	for _, in := range cases {
		if got := storeErr(in); got != in {
			t.Fatalf("storeErr(%v) must pass through unchanged, got %v", in, got)
		}
	}
}
