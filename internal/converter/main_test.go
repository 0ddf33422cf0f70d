package converter

import (
	"testing"

	"go.uber.org/goleak"
)

// Every workbook opened by Convert must be closed before it returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
