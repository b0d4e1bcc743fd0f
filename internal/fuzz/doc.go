// Package fuzztests houses Go fuzz harnesses that exercise the message
// pipeline (source -> parser -> compiler -> codegen). The goal is to smoke
// test robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через парсер и компилятор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/parser, internal/compiler,
// internal/codegen, internal/diag.

package fuzztests
