// Package sdd parses Standard DNA Damage (SDD) reports into a table with one
// row per damage event.
package sdd

// Canonical body fields, in the order the "Data entries" bitmask refers to.
const (
	FieldClass               = "class"
	FieldXYZ                 = "xyz"
	FieldChromosomeID        = "chromosomeid"
	FieldChromosomePos       = "chromosomepos"
	FieldCause               = "cause"
	FieldDamage              = "damage"
	FieldBreakSpec           = "breakspec"
	FieldSequence            = "sequence"
	FieldLesionTime          = "lesiontime"
	FieldParticleType        = "particletype"
	FieldParticleEnergy      = "particleenergy"
	FieldParticleTranslation = "particletranslation"
	FieldParticleDirection   = "particledirection"
	FieldParticleTime        = "particletime"
)

// CanonicalFields lists the 14 body fields a report may carry.
var CanonicalFields = [...]string{
	FieldClass, FieldXYZ, FieldChromosomeID, FieldChromosomePos,
	FieldCause, FieldDamage, FieldBreakSpec, FieldSequence,
	FieldLesionTime, FieldParticleType, FieldParticleEnergy,
	FieldParticleTranslation, FieldParticleDirection, FieldParticleTime,
}

// Output column names of the assembled table.
const (
	ColXCenter = "xcenter"
	ColYCenter = "ycenter"
	ColZCenter = "zcenter"
	ColXMax    = "xmax"
	ColYMax    = "ymax"
	ColZMax    = "zmax"
	ColXMin    = "xmin"
	ColYMin    = "ymin"
	ColZMin    = "zmin"

	ColStructure        = "structure"
	ColChromosomeNumber = "chromosomeNumber"
	ColChromatidNumber  = "chromatidNumber"
	ColArm              = "arm"

	ColNumBases        = "numBases"
	ColSingleNumber    = "singleNumber"
	ColDSBPresent      = "dsbPresent"
	ColIdentifier      = "identifier"
	ColDirect          = "direct"
	ColIndirect        = "indirect"
	ColDirectNIndirect = "directNIndirect"
	ColTotalDamages    = "totalDamages"
	ColLesionTimes     = "lesiontimes"
)

var (
	dimensionHeaders  = [...]string{ColXCenter, ColYCenter, ColZCenter, ColXMax, ColYMax, ColZMax, ColXMin, ColYMin, ColZMin}
	chromosomeHeaders = [...]string{ColStructure, ColChromosomeNumber, ColChromatidNumber, ColArm}
	damageHeaders     = [...]string{ColNumBases, ColSingleNumber, ColDSBPresent}
	causeHeaders      = [...]string{ColIdentifier, ColDirect, ColIndirect}
	breakSpecHeaders  = [...]string{ColNumBases, ColSingleNumber, ColIdentifier, ColDirect, ColIndirect, ColDirectNIndirect, ColDSBPresent}
)

// Header markers recognised anywhere on a header line.
const (
	markerEndOfHeader      = "EndOfHeader"
	markerDataEntries      = "Data entries"
	markerVolumes          = "Volumes"
	markerDamageDefinition = "Damage definition"
)

// Lesion times are rescaled into the animation frame range.
const (
	LesionTimeMin = 1
	LesionTimeMax = 1200
)

// Cause identifiers used by break specifications.
const (
	causeNone     = 0
	causeDirect   = 1
	causeIndirect = 2
	causeBoth     = 3
)
