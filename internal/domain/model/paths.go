package model

import "strings"

const (
	vcfExt       = ".vcf"
	resultSuffix = ".annot.vcf"
	logSuffix    = ".count.log"
)

// ResultFileName derives the annotated output name from an input file name.
// "sample.vcf" becomes "sample.annot.vcf".
func ResultFileName(inputFileName string) string {
	if strings.HasSuffix(inputFileName, vcfExt) {
		return strings.TrimSuffix(inputFileName, vcfExt) + resultSuffix
	}
	return inputFileName + resultSuffix
}

// LogFileName derives the annotation log name from an input file name.
// "sample.vcf" becomes "sample.vcf.count.log".
func LogFileName(inputFileName string) string {
	return inputFileName + logSuffix
}

// ResultKey builds the per-user results key for a derived file name.
// Keys look like "<prefix><user_id>/<file name>".
func ResultKey(keyPrefix, userID, fileName string) string {
	return keyPrefix + userID + "/" + fileName
}
