// Package shared holds helpers used by more than one package of the
// service. It carries no domain logic.
//
// The testutil subpackage provides a capturing slog handler and canonical
// request fixtures for the density endpoints:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    svc := services.NewDensityService(logger, nil, 0)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "density computed")
//	}
package shared
