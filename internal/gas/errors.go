package gas

import "errors"

var (
	// ErrMissingResult signals a JSON-RPC response without a result field
	ErrMissingResult = errors.New("rpc response has no result")
	// ErrNilFetcher signals that a nil gas price fetcher was provided
	ErrNilFetcher = errors.New("nil gas price fetcher")
	// ErrNoNetworks signals that the cache was configured without networks
	ErrNoNetworks = errors.New("no networks configured")
)
