// Package mock provides test doubles for the ai interfaces.
//
//	expander := mock.NewMockQueryExpander()
//	expander.ExpandQueryFunc = func(ctx context.Context, q string) ([]string, error) {
//	    return []string{"night light"}, nil
//	}
//	count := expander.CallCount()
//
// By default MockQueryExpander returns no keywords.
package mock
