package books

// starter holds the item names of the default day-sheet catalogue, keyed by
// category in catalogue order. It seeds the very first day of a project,
// before any history exists to derive a skeleton from.
var starter = []struct {
    Category Category
    Items    []string
}{
    {CategoryLabour, []string{
        "Mason",
        "Helper",
        "Ladies Helper",
        "Excavation & Backfilling Work",
        "Steel Fitter",
        "Shuttering Carpenter",
        "Electrician",
        "Plumber",
        "Painter",
        "Polish Work",
        "Carpenter",
        "Carpenter Helper",
        "Tile & Granite Work",
        "Steel Welder/Mechanical Work",
        "Cupboard Work",
        "Stainless Steel Work",
        "Glass Work",
        "Fall Ceiling Work",
    }},
    {CategoryCement, []string{
        "M Sand (Manufactured Sand)",
        "P Sand (Plastering Sand)",
        "R Sand (River Sand)",
        "Bricks",
        "3/4 Gravel",
        "1/2 Gravel",
    }},
    {CategorySteel, []string{
        "8mm Rebar",
        "10mm Rebar",
        "12mm Rebar",
        "16mm Rebar",
        "20mm Rebar",
        "Backfilling Materials",
    }},
    {CategoryCarpenter, []string{
        "Wooden Planks",
        "Wooden Post",
        "Wooden Frame",
        "Wooden Bedding",
    }},
    {CategoryElectrical, []string{
        "Pipes",
        "Metal Box",
        "Switches & Socket",
        "Switch Board",
        "Wires",
        "Lights",
    }},
    {CategoryPlumbing, []string{
        "Pipes",
        "Tapes",
        "Sanitary Fittings",
    }},
    {CategoryPainting, []string{
        "Putty",
        "Primer",
        "Paint",
        "Polish",
    }},
    {CategoryAdvances, []string{
        "Advance to Plumber",
    }},
    {CategoryStaff, []string{
        "Ramesh (Supervisor)",
    }},
    {CategoryFood, []string{
        "Team Tea / Snacks",
        "Drinking Water",
    }},
    {CategoryPersonal, []string{
        "Food (Self)",
        "Fuel (Self)",
        "Others (Personal)",
    }},
    {CategoryMisc, []string{
        "Fuel for Generator",
    }},
}

// DefaultTemplate returns the starter day sheet: every curated category with
// its default items and all values blank.
func DefaultTemplate() []LineItem {
    out := make([]LineItem, 0, 64)
    for _, section := range starter {
        for _, name := range section.Items {
            out = append(out, LineItem{Category: section.Category, ItemName: name})
        }
    }
    return out
}
