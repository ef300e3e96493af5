// Package domain models wildfire-risk predictions for California locations.
//
// # Data Sources
//
// Feature values are aggregated from four read-only reference stores,
// populated upstream from public archives:
//
//	Weather:    NOAA GHCN-Daily station observations (TMAX, TMIN, PRCP, AWND),
//	            aggregated to daily values per grid cell.
//	Drought:    US Drought Monitor weekly county classifications, D0–D4:
//	            D0 abnormally dry, D1 moderate, D2 severe, D3 extreme,
//	            D4 exceptional drought. Stored as integer levels 0–4.
//	Terrain:    SRTM-derived elevation (meters), slope (degrees), and aspect
//	            (compass degrees, encoded as sin/cos so north ≈ south-facing
//	            distances behave sensibly in a linear model).
//	Population: CA Department of Finance county estimates, converted to
//	            persons per square kilometer.
//
// # Geographic Bounds
//
// Predictions are supported only inside California's bounding box,
// 32.5–42.0°N and -124.5 to -114.0°E, matching the extent of the
// reference datasets. Requests outside the box are rejected before any
// store is queried.
//
// # Forecast Horizon
//
// A target date is valid when it falls between 7 and 30 days after the
// current date. Shorter horizons are the province of operational fire
// weather forecasts; beyond 30 days the aggregated signals carry no skill.
//
// # Risk Categories
//
// The continuous score in [0,1] maps to four ordinal categories via
// thresholds carried in the model artifact (defaults 0.25/0.50/0.75):
//
//	low      score < moderate threshold
//	moderate score < high threshold
//	high     score < extreme threshold
//	extreme  otherwise
//
// Thresholds live in model metadata, not code, so they can be recalibrated
// against observed fire seasons without retraining.
//
// # Feature Schema Versioning
//
// A FeatureVector carries the schema version it was assembled under. A
// model only accepts vectors matching its own schema version; any skew is
// a SchemaMismatch, never a silent reinterpretation of positions.
package domain
