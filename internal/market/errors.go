package market

import "errors"

var (
	// ErrNilCoinGecko signals that a nil CoinGecko fetcher was provided
	ErrNilCoinGecko = errors.New("nil coingecko fetcher")
	// ErrNilFetcher signals that a nil coin fetcher was provided
	ErrNilFetcher = errors.New("nil coin fetcher")
	// ErrNoCoins signals that the snapshot was configured without coins
	ErrNoCoins = errors.New("no coins configured")
	// ErrNoSymbols signals that a coin has no exchange symbol mapping
	ErrNoSymbols = errors.New("no exchange symbols configured")
	// ErrNoSupportedExchange signals that no provider lists the coin
	ErrNoSupportedExchange = errors.New("no supported exchange found")
)
