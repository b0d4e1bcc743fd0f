// Package skeleton converts ICU number and date skeletons (the text after
// "::" in a format argument) into Intl formatter option objects.
package skeleton
