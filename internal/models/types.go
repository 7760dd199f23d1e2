package models

type Coin struct {
	Name string
	ID   string
}

// Network is an EVM chain whose gas price is tracked through its public RPC.
type Network struct {
	Key      string
	Name     string
	Endpoint string
	Glyph    string
}

// MultiCurrency holds a CoinGecko per-currency value. USD is nil when the
// upstream omitted it.
type MultiCurrency struct {
	USD *float64 `json:"usd"`
}

type CoinData struct {
	Price                    MultiCurrency `json:"current_price"`
	PriceChangePercentage24h *float64      `json:"price_change_percentage_24h"`
	MarketCap                MultiCurrency `json:"market_cap"`
	FullyDilutedValuation    MultiCurrency `json:"fully_diluted_valuation"`
	Volume24h                MultiCurrency `json:"total_volume"`
}

type CoinGeckoResponse struct {
	MarketData *CoinData `json:"market_data"`
}

type RPCRequest struct {
	JsonRPC string   `json:"jsonrpc"`
	Method  string   `json:"method"`
	Params  []string `json:"params"`
	ID      int      `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type RPCResponse struct {
	Result *string   `json:"result"`
	Error  *RPCError `json:"error"`
}

// DefaultCoins is the tracked basket, in report order.
var DefaultCoins = []Coin{
	{Name: "Starknet", ID: "starknet"},
	{Name: "ZkSync", ID: "zksync"},
	{Name: "Taiko", ID: "taiko"},
	{Name: "Scroll", ID: "scroll"},
}

// DefaultNetworks is the set of chains reported by the gas command, in report order.
var DefaultNetworks = []Network{
	{Key: "ethereum", Name: "Ethereum", Endpoint: "https://rpc.mevblocker.io", Glyph: "⬙"},
	{Key: "zksync", Name: "ZkSync", Endpoint: "https://mainnet.era.zksync.io", Glyph: "⇆"},
	{Key: "taiko", Name: "Taiko", Endpoint: "https://rpc.mainnet.taiko.xyz", Glyph: "▲"},
	{Key: "scroll", Name: "Scroll", Endpoint: "https://rpc.scroll.io", Glyph: "📜"},
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
