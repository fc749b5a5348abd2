package views

import "example.com/app/uno"

var (
	button = uno.Classes("px-4 py-2", `hover:(bg-blue-600 text-white)`)
	badge  = uno.Merge("p-(1 2)", "text-(xs gray-500)")
	plain  = "not-(a class)"
)
