// Package fuzztests houses Go fuzz harnesses for the variant group expander
// and the class site extractor. Its goal is to smoke test robustness and
// guard against panics, non-termination and broken invariants on arbitrary
// inputs.
//
// Назначение: запускать fuzz-обработчики над variant.Expand, variant.Inspect
// и extract.Extract.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/variant, internal/extract, internal/source,
// internal/testkit.

package fuzztests
