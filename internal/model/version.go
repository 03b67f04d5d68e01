package model

// Version is the released version of chordchart.
const Version = "0.3.0"
