package features

// FieldSpec describes one numeric form field and its inclusive valid range.
type FieldSpec struct {
	Name string
	Min  float64
	Max  float64
}

// fields is the fixed input contract of the classifier. Order matters: it is
// the column order of the feature vector, the prediction log and batch files.
var fields = []FieldSpec{
	{Name: "Pregnancies", Min: 0, Max: 20},
	{Name: "Glucose", Min: 0, Max: 300},
	{Name: "BloodPressure", Min: 0, Max: 200},
	{Name: "SkinThickness", Min: 0, Max: 100},
	{Name: "Insulin", Min: 0, Max: 850},
	{Name: "BMI", Min: 0, Max: 70},
	{Name: "DiabetesPedigree", Min: 0, Max: 2.5},
	{Name: "Age", Min: 0, Max: 120},
}

// Fields returns the declared field specs in vector order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fields))
	copy(out, fields)
	return out
}

// Names returns the field names in vector order.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Count returns the number of declared fields.
func Count() int {
	return len(fields)
}
