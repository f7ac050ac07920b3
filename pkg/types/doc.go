// Package types defines the domain entities, categorical enumerations, and
// standard errors shared by the dam-capacity pipeline: watersheds, reaches,
// vegetation reference data, hydrology parameters, and the closed lookup
// sets used for capacity, risk, limitation, and opportunity outputs.
package types
