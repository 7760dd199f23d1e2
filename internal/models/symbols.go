package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExchangeSymbols holds trading pair symbols for a coin across different exchanges
type ExchangeSymbols struct {
	Binance string `json:"binance"`
	OKX     string `json:"okx"`
	Bybit   string `json:"bybit"`
	Bitget  string `json:"bitget"`
}

// SymbolFor returns the symbol used on the named exchange, or "" when unlisted.
func (s ExchangeSymbols) SymbolFor(exchange string) string {
	switch exchange {
	case "binance":
		return s.Binance
	case "okx":
		return s.OKX
	case "bybit":
		return s.Bybit
	case "bitget":
		return s.Bitget
	}
	return ""
}

// DefaultSymbols maps Coin.ID to its exchange-specific trading symbols
func DefaultSymbols() map[string]ExchangeSymbols {
	return map[string]ExchangeSymbols{
		"starknet": {Binance: "STRKUSDT", OKX: "STRK-USDT", Bybit: "STRKUSDT", Bitget: "STRKUSDT"},
		"zksync":   {Binance: "ZKUSDT", OKX: "ZK-USDT", Bybit: "ZKUSDT", Bitget: "ZKUSDT"},
		"taiko":    {Binance: "TAIKOUSDT", OKX: "TAIKO-USDT", Bybit: "TAIKOUSDT", Bitget: "TAIKOUSDT"},
		"scroll":   {Binance: "SCRUSDT", OKX: "SCR-USDT", Bybit: "SCRUSDT", Bitget: "SCRUSDT"},
	}
}

// LoadSymbols returns the default mappings merged with the entries of the JSON
// file at path. An empty path or a missing file yields the defaults.
func LoadSymbols(path string) (map[string]ExchangeSymbols, error) {
	symbols := DefaultSymbols()
	if path == "" {
		return symbols, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return symbols, nil
		}
		return nil, fmt.Errorf("read symbols file: %w", err)
	}

	var custom map[string]ExchangeSymbols
	if err := json.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("parse symbols file %s: %w", path, err)
	}

	for coinID, exchangeSymbols := range custom {
		symbols[coinID] = exchangeSymbols
	}
	return symbols, nil
}
