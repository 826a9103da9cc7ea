package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muhammad-div/ghanabuild/internal/estimate"
	"github.com/Muhammad-div/ghanabuild/internal/report"
)

type estimateOptions struct {
	region        string
	projectType   string
	area          string
	unit          string
	bathrooms     string
	floors        string
	quality       string
	externalWorks bool
	landCost      string
	materialCost  string
	laborCost     string

	asJSON  bool
	details bool
	sort    string
	order   string
	filter  string
}

func newEstimateCmd(root *rootOptions) *cobra.Command {
	o := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a project",
		Example: `  ghanabuild estimate --region accra --area 200 --bathrooms 3 --floors 2 --external-works
  ghanabuild estimate --region kumasi --area 1800 --unit sqft --bathrooms 2 --floors 1 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := root.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			req := o.request(cmd)
			b, err := estimate.Compute(req, cat)
			if err != nil {
				if details := estimate.Details(err); len(details) > 0 {
					for _, d := range details {
						fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", d)
					}
				}
				return err
			}

			rep := report.Summary(b)
			if o.details {
				rep = report.Build(b, cat, report.Query{
					Sort:   o.sort,
					Desc:   strings.EqualFold(o.order, "desc"),
					Filter: o.filter,
				})
			}

			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			return report.WriteText(cmd.OutOrStdout(), rep)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.region, "region", "", "region name, e.g. accra")
	f.StringVar(&o.projectType, "project-type", "residential", "project type")
	f.StringVar(&o.area, "area", "", "total floor area")
	f.StringVar(&o.unit, "unit", "sqm", "area unit: sqm or sqft")
	f.StringVar(&o.bathrooms, "bathrooms", "1", "number of bathrooms (1-10)")
	f.StringVar(&o.floors, "floors", "1", "number of floors (1-5)")
	f.StringVar(&o.quality, "quality", "standard", "finish quality")
	f.BoolVar(&o.externalWorks, "external-works", false, "include external works")
	f.StringVar(&o.landCost, "land-cost", "", "custom land cost per plot")
	f.StringVar(&o.materialCost, "material-cost", "", "custom construction cost per sqm")
	f.StringVar(&o.laborCost, "labor-cost", "", "custom daily labour rate")
	f.BoolVar(&o.asJSON, "json", false, "print JSON instead of text")
	f.BoolVar(&o.details, "details", false, "include materials, workforce and schedule")
	f.StringVar(&o.sort, "sort", "", "sort takeoff tables by name, cost, quantity, rate or days")
	f.StringVar(&o.order, "order", "asc", "sort order: asc or desc")
	f.StringVar(&o.filter, "filter", "", "filter takeoff tables by name or category")

	return cmd
}

func (o *estimateOptions) request(cmd *cobra.Command) estimate.Request {
	changed := cmd.Flags().Changed
	return estimate.Request{
		Region:                o.region,
		ProjectType:           o.projectType,
		TotalFloorArea:        estimate.Value(o.area),
		AreaUnit:              o.unit,
		NumberOfBathrooms:     estimate.Value(o.bathrooms),
		NumberOfFloors:        estimate.Value(o.floors),
		FinishQuality:         o.quality,
		IncludeExternalWorks:  o.externalWorks,
		UseCustomLandCost:     changed("land-cost"),
		CustomLandCost:        estimate.Value(o.landCost),
		UseCustomMaterialCost: changed("material-cost"),
		CustomMaterialCost:    estimate.Value(o.materialCost),
		UseCustomLaborCost:    changed("labor-cost"),
		CustomLaborCost:       estimate.Value(o.laborCost),
	}
}
