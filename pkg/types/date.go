package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты на границах системы
const DateFormat = "2006-01-02"

var ErrInvalidDateFormat = errors.New("invalid date string format, expected YYYY-MM-DD")

// Date календарная дата с точностью до дня (без времени и часового пояса).
// Все даты в системе пересекают границы API и БД именно в этом виде.
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateFromTime создает дату, отбрасывая время и часовой пояс
func NewDateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// NewDateFromString парсит дату из строки формата YYYY-MM-DD
func NewDateFromString(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	return NewDateFromTime(t), nil
}

// Time возвращает дату как time.Time (полночь UTC)
func (d Date) Time() time.Time {
	return d.t
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateFormat)
}

// IsZero сообщает, что дата не установлена
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// AddDays возвращает дату, сдвинутую на n дней (n может быть отрицательным)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince возвращает количество целых дней между d и other (d - other)
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t) / (24 * time.Hour))
}

// DayNumber возвращает число целых дней от эпохи Unix.
// Используется движком офферов для перевода дат в целочисленные смещения.
func (d Date) DayNumber() int {
	return int(d.t.Unix() / (24 * 60 * 60))
}

// DateFromDayNumber обратное преобразование из числа дней от эпохи Unix
func DateFromDayNumber(day int) Date {
	return NewDateFromTime(time.Unix(int64(day)*24*60*60, 0).UTC())
}

// Before сообщает, что d строго раньше other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After сообщает, что d строго позже other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal сообщает, что даты совпадают
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Weekday возвращает день недели
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// MarshalJSON сериализует дату как строку YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON парсит дату из строки YYYY-MM-DD
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDateFormat
	}
	parsed, err := NewDateFromString(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer для записи в колонку DATE
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan реализует sql.Scanner для чтения из колонки DATE
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDateFromTime(v)
		return nil
	case []byte:
		parsed, err := NewDateFromString(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := NewDateFromString(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("types.Date: cannot scan %T", src)
	}
}
