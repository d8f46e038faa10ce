package models

// Stock represents a stock that is available for trading.
type Stock struct {
	ID int64 `json:"id" badgerhold:"key"`

	// ISIN is the International Securities Identification Number;
	// it serves as the unique key when synchronizing with the
	// external stock catalog.
	ISIN string `json:"isin"`

	Name string `json:"name"`
}
