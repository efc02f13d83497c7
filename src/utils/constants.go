package utils

const ShortDashDateLayout = "2006-01-02"

// BaseCurrency is the only currency the service handles.
const BaseCurrency = "USD"

// Decimal places used for money rounding.
const MoneyPlaces = 2

// Number of rows shown in the summary's top holdings and recent transactions lists.
const SummaryListSize = 5
