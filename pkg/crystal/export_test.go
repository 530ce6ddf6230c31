package crystal

var FmtFloat = fmtFloat
