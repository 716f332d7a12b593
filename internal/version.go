package internal

// Version is the tabtrans release version
const Version = "0.3.0"
