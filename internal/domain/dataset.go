package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// Row - строка таблицы наблюдений: имя колонки -> скалярное значение
type Row map[string]interface{}

// Table - разобранная табличная выборка, поступающая от внешнего слоя.
// Парсинг конкретных форматов файлов не входит в ядро.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Dataset - единственная активная выборка процесса.
// Заменяется целиком при каждой загрузке, между загрузками неизменяема.
type Dataset struct {
	ID      uuid.UUID `json:"dataset_id"`
	Columns []string  `json:"columns"`
	Rows    []Row     `json:"rows"`
}

// Point - координаты наблюдения в плоской проекции
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GroupKeyAll - сентинел "все строки" для анализа без группировки
const GroupKeyAll = "all"

// NewDataset строит выборку из таблицы: копирует строки, назначает
// порядковый id (с единицы) и категориальные коды city по колонке name
func NewDataset(table Table) *Dataset {
	columns := make([]string, len(table.Columns))
	copy(columns, table.Columns)
	if len(columns) == 0 && len(table.Rows) > 0 {
		for name := range table.Rows[0] {
			columns = append(columns, name)
		}
		sort.Strings(columns)
	}

	rows := make([]Row, len(table.Rows))
	for i, src := range table.Rows {
		row := make(Row, len(src)+2)
		for k, v := range src {
			row[k] = v
		}
		row["id"] = i + 1
		rows[i] = row
	}

	ds := &Dataset{
		ID:      uuid.New(),
		Columns: appendColumn(columns, "id"),
		Rows:    rows,
	}

	if ds.HasColumn("name") {
		ds.assignCityCodes()
	}

	return ds
}

// assignCityCodes повторяет pandas.Categorical(name).codes:
// категории сортируются, каждой строке присваивается код категории
func (d *Dataset) assignCityCodes() {
	distinct := make(map[string]struct{})
	for _, row := range d.Rows {
		distinct[fmt.Sprint(row["name"])] = struct{}{}
	}

	categories := make([]string, 0, len(distinct))
	for name := range distinct {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	codes := make(map[string]int, len(categories))
	for i, name := range categories {
		codes[name] = i
	}

	for _, row := range d.Rows {
		row["city"] = codes[fmt.Sprint(row["name"])]
	}
	d.Columns = appendColumn(d.Columns, "city")
}

func appendColumn(columns []string, name string) []string {
	for _, c := range columns {
		if c == name {
			return columns
		}
	}
	return append(columns, name)
}

// N возвращает число наблюдений
func (d *Dataset) N() int {
	return len(d.Rows)
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// NumericColumn извлекает колонку как вектор float64.
// Ошибка при отсутствии колонки или нечисловом значении.
func (d *Dataset) NumericColumn(name string) ([]float64, error) {
	if !d.HasColumn(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		v, ok := AsFloat(row[name])
		if !ok {
			return nil, fmt.Errorf("column %q has non-numeric value at row %d", name, i+1)
		}
		values[i] = v
	}
	return values, nil
}

// NumericColumnAt извлекает значения колонки по подмножеству индексов строк
func (d *Dataset) NumericColumnAt(name string, indices []int) ([]float64, error) {
	if !d.HasColumn(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	values := make([]float64, len(indices))
	for i, idx := range indices {
		v, ok := AsFloat(d.Rows[idx][name])
		if !ok {
			return nil, fmt.Errorf("column %q has non-numeric value at row %d", name, idx+1)
		}
		values[i] = v
	}
	return values, nil
}

// GroupKeys возвращает отсортированные различные значения колонки группировки
func (d *Dataset) GroupKeys(column string) []string {
	if !d.HasColumn(column) {
		return nil
	}
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, row := range d.Rows {
		key := FormatGroupKey(row[column])
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

// GroupIndices возвращает индексы строк группы.
// Ключ GroupKeyAll выбирает все строки.
func (d *Dataset) GroupIndices(column, key string) []int {
	indices := make([]int, 0, len(d.Rows))
	if key == GroupKeyAll || !d.HasColumn(column) {
		for i := range d.Rows {
			indices = append(indices, i)
		}
		return indices
	}
	for i, row := range d.Rows {
		if FormatGroupKey(row[column]) == key {
			indices = append(indices, i)
		}
	}
	return indices
}

// Head возвращает первые n строк для сводки по данным
func (d *Dataset) Head(n int) []Row {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	sample := make([]Row, n)
	copy(sample, d.Rows[:n])
	return sample
}

// AsFloat приводит скалярное значение таблицы к float64
func AsFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FormatGroupKey приводит значение группировки к строковому ключу:
// целочисленные значения без дробной части ("2020", не "2020.0")
func FormatGroupKey(v interface{}) string {
	if f, ok := AsFloat(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
