// Package common содержит общие утилиты, используемые во всём проекте.
// pluralize.go — правильное склонение русских числительных.
package common

import "fmt"

// PluralizePraises возвращает правильную форму слова «хлоп» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "хлоп" (1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → "хлопа" (2, 3, 4, 22, ...)
//   - Остальные случаи → "хлопов" (0, 5-20, 25-30, ...)
func PluralizePraises(n int) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "хлоп"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "хлопа"
	}
	return "хлопов"
}

// FormatPraises форматирует количество хлопов в читабельную строку.
// Пример: FormatPraises(3) → "3 хлопа"
func FormatPraises(n int) string {
	return fmt.Sprintf("%d %s", n, PluralizePraises(n))
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
func PluralizeDays(n int) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}
