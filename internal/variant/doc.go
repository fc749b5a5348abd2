// Package variant expands variant groups in utility-class strings.
//
// A variant group is the shorthand `prefix-(a b c)` or `prefix:(a b c)`
// which stands for `prefix-a prefix-b prefix-c`. Groups nest, members may
// carry the importance marker `!` (hoisted to the front of the expanded
// token) and the self placeholder `~` (expands to the bare prefix).
// Bracketed arbitrary values such as `[&:not(c)]` or `h-[calc(100%-4rem)]`
// are opaque: parentheses inside them never open a group.
//
// Назначение: чистое текстовое преобразование без ошибок и побочных эффектов.
//
// Не делает: проверку того, что результат состоит из реальных утилит.
package variant
