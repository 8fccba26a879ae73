package worklens

import "strings"

// Table names of the employee dataset. The schema is fixed: the storage
// collaborator is expected to expose exactly these tables and columns.
const (
	TableEmployee           = "Employee"
	TableSalary             = "Salary"
	TablePerformance        = "Performance"
	TableLocation           = "Location"
	TableDepartment         = "Department"
	TableEmployeeDepartment = "Employee_Department"
)

// Column names shared across the pipeline. Joined frames use the same names
// as the source tables; join keys appear once in the joined output.
const (
	ColEmployeeID       = "Employee_ID"
	ColName             = "Name"
	ColGender           = "Gender"
	ColAge              = "Age"
	ColEducation        = "Education"
	ColJoinDate         = "Join_Date"
	ColTenure           = "Tenure"
	ColSalary           = "Salary"
	ColAnnualBonus      = "Annual_Bonus"
	ColBonusPercentage  = "Bonus_Percentage"
	ColPerformanceScore = "Performance_Score"
	ColWorkingHours     = "Working_Hours"
	ColCity             = "City"
	ColCountry          = "Country"
	ColDepartmentID     = "Department_ID"
	ColDepartmentName   = "Department_Name"
)

// tableSchema declares the columns read from one storage table.
type tableSchema struct {
	name    string
	columns header
}

// employeeSchema is the fixed set of read queries issued per pipeline run,
// in load order.
var employeeSchema = []tableSchema{
	{TableEmployee, header{ColEmployeeID, ColName, ColGender, ColAge, ColEducation, ColJoinDate, ColTenure}},
	{TableSalary, header{ColEmployeeID, ColSalary, ColAnnualBonus, ColBonusPercentage}},
	{TablePerformance, header{ColEmployeeID, ColPerformanceScore, ColWorkingHours}},
	{TableLocation, header{ColEmployeeID, ColCity, ColCountry}},
	{TableEmployeeDepartment, header{ColEmployeeID, ColDepartmentID}},
	{TableDepartment, header{ColDepartmentID, ColDepartmentName}},
}

// schemaFor returns the declared schema for a table name, matched
// case-insensitively the way SQLite resolves identifiers.
func schemaFor(table string) (tableSchema, bool) {
	for _, ts := range employeeSchema {
		if strings.EqualFold(ts.name, table) {
			return ts, true
		}
	}
	return tableSchema{}, false
}

// joinStep declares one inner join in the denormalization plan.
type joinStep struct {
	table    string
	leftKey  string
	rightKey string
}

// joinPlan denormalizes the six tables into one analytic frame. The plan
// starts from Employee; every later table must match on its key or the
// employee contributes zero rows.
var joinPlan = []joinStep{
	{table: TableSalary, leftKey: ColEmployeeID, rightKey: ColEmployeeID},
	{table: TablePerformance, leftKey: ColEmployeeID, rightKey: ColEmployeeID},
	{table: TableLocation, leftKey: ColEmployeeID, rightKey: ColEmployeeID},
	{table: TableEmployeeDepartment, leftKey: ColEmployeeID, rightKey: ColEmployeeID},
	{table: TableDepartment, leftKey: ColDepartmentID, rightKey: ColDepartmentID},
}

// numericColumns is the designated set coerced by the normalizer. Cells in
// these columns that fail coercion become missing markers.
var numericColumns = []string{
	ColAge,
	ColTenure,
	ColSalary,
	ColAnnualBonus,
	ColBonusPercentage,
	ColPerformanceScore,
	ColWorkingHours,
}

// categoricalColumns feed the display collaborator's selection widgets.
var categoricalColumns = []string{
	ColGender,
	ColCity,
	ColCountry,
	ColDepartmentName,
}
