package picket

// Version is the current release of the Picket library.
var Version = "0.1.0"
